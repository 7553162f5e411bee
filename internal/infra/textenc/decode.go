package textenc

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding names reported by Decode.
const (
	UTF8    = "utf-8"
	UTF8BOM = "utf-8-sig"
	CP949   = "cp949"
)

// Decode turns an exported chat file into a string. UTF-8 (with or without
// BOM) is tried first, then CP949/EUC-KR which older Windows exports use.
func Decode(b []byte) (string, string, error) {
	if bytes.HasPrefix(b, utf8BOM) {
		rest := b[len(utf8BOM):]
		if utf8.Valid(rest) {
			return string(rest), UTF8BOM, nil
		}
	}
	if utf8.Valid(b) {
		return string(b), UTF8, nil
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), b)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", CP949, err)
	}
	return string(out), CP949, nil
}
