package dateparse

import (
	"testing"
	"time"
)

// Fixed reference: Wednesday 2026-03-11 15:04:05 UTC
var refTime = time.Date(2026, 3, 11, 15, 4, 5, 0, time.UTC)

func TestParseDateExact(t *testing.T) {
	got, err := ParseDateFrom("2026-03-01", refTime)
	if err != nil {
		t.Fatalf("ParseDateFrom error: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDateFrom(2026-03-01) = %v, want %v", got, want)
	}
}

func TestParseDateKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"TODAY", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		got, err := ParseDateFrom(tc.input, refTime)
		if err != nil {
			t.Errorf("ParseDateFrom(%q) error: %v", tc.input, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDateFrom(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDateBackOffsets(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"-7d", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"-2w", time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)},
		{"-1m", time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)},
		{"-0d", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		got, err := ParseDateFrom(tc.input, refTime)
		if err != nil {
			t.Errorf("ParseDateFrom(%q) error: %v", tc.input, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDateFrom(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	inputs := []string{"", "03/11/2026", "2026-13-40", "-7x", "next-week", "someday"}

	for _, input := range inputs {
		if _, err := ParseDateFrom(input, refTime); err == nil {
			t.Errorf("ParseDateFrom(%q) = nil error, want error", input)
		}
	}
}
