package chat

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenize lowercases body and splits it on every rune that is not a
// letter, digit or combining mark, so whitespace, punctuation, symbols and
// emoji all act as separators.
func Tokenize(body string) []string {
	body = strings.ToLower(norm.NFC.String(body))
	return strings.FieldsFunc(body, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
	})
}

// ExtractKeywords ranks the tokens of all message bodies. Entries are
// sorted by count descending, ties alphabetically. topN <= 0 returns all.
func ExtractKeywords(msgs []RawMessage, stopwords map[string]struct{}, minLength, topN int) []KeywordEntry {
	counts := make(map[string]int)
	for _, m := range msgs {
		if strings.TrimSpace(m.Body) == "" {
			continue
		}
		for _, tok := range Tokenize(m.Body) {
			if keepToken(tok, stopwords, minLength) {
				counts[tok]++
			}
		}
	}

	out := make([]KeywordEntry, 0, len(counts))
	for w, c := range counts {
		out = append(out, KeywordEntry{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func keepToken(tok string, stopwords map[string]struct{}, minLength int) bool {
	if utf8.RuneCountInString(tok) < minLength {
		return false
	}
	if _, stop := stopwords[tok]; stop {
		return false
	}
	return hasLetter(tok) && !isJamoOnly(tok)
}

// hasLetter rejects numeric-only and mark-only tokens.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isJamoOnly reports tokens made only of Hangul compatibility jamo such as
// ㅋㅋㅋ or ㅠㅠ.
func isJamoOnly(s string) bool {
	for _, r := range s {
		if r < 0x3131 || r > 0x318E {
			return false
		}
	}
	return true
}
