package textenc

import (
	"testing"

	"golang.org/x/text/encoding/korean"
)

func TestDecode(t *testing.T) {
	const text = "[오후 1:23] 나 : 안녕"

	cp949, err := korean.EUCKR.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	cases := []struct {
		name string
		in   []byte
		enc  string
	}{
		{"utf-8", []byte(text), UTF8},
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, text...), UTF8BOM},
		{"cp949", []byte(cp949), CP949},
	}
	for _, tc := range cases {
		got, enc, err := Decode(tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != text || enc != tc.enc {
			t.Fatalf("%s: got %q (%s), want %q (%s)", tc.name, got, enc, text, tc.enc)
		}
	}
}
