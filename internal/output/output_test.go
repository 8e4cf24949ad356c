package output

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		expected string
	}{
		{"short", 40, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a long activity name that keeps on going well past forty", 40, "a long activity name that keeps on go..."},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abc"},
		{"Höhenweg über die Alpen nach Südtirol", 20, "Höhenweg über die..."},
		{"日本縦断ライド", 5, "日本..."},
	}

	for _, tc := range tests {
		got := Truncate(tc.in, tc.max)
		if got != tc.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.expected)
		}
		if utf8.RuneCountInString(got) > tc.max {
			t.Errorf("Truncate(%q, %d) rune count %d exceeds max", tc.in, tc.max, utf8.RuneCountInString(got))
		}
		if !utf8.ValidString(got) {
			t.Errorf("Truncate(%q, %d) produced invalid UTF-8 %q", tc.in, tc.max, got)
		}
	}
}
