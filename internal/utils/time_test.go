package utils

import (
	"testing"
	"time"
)

func TestTruncateHoursIsDisplayOnly(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{23.983, 23.9},
		{24.0, 24.0},
		{24.016, 24.0},
		{24.51, 24.5},
		{0.05, 0.0},
	}
	for _, tc := range cases {
		if got := TruncateHours(tc.in); got != tc.want {
			t.Fatalf("TruncateHours(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate(" 2026-09-10 ")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := FormatDate(d); got != "2026-09-10" {
		t.Fatalf("round trip got %q", got)
	}
	if _, err := ParseDate("10/09/2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestHoursSince(t *testing.T) {
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	if got := HoursSince(base.Add(90*time.Minute), base); got != 1.5 {
		t.Fatalf("HoursSince = %v, want 1.5", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  a   b \t c "); got != "a b c" {
		t.Fatalf("NormalizeSpace got %q", got)
	}
}
