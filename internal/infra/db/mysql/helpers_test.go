package mysql

import "testing"

func TestStringOrDash(t *testing.T) {
	cases := map[string]string{"": "-", "   ": "-", "analyze_text": "analyze_text"}
	for in, want := range cases {
		if got := stringOrDash(in); got != want {
			t.Fatalf("stringOrDash(%q) = %q, want %q", in, got, want)
		}
	}
}
