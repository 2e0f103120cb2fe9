package utils

import (
	"math"
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// HoursSince returns the wall-clock hours elapsed since t.
func HoursSince(now, t time.Time) float64 {
	return now.Sub(t).Hours()
}

// TruncateHours truncates an hour count to one decimal for display.
// Gating comparisons must use the untruncated value.
func TruncateHours(h float64) float64 {
	return math.Trunc(h*10) / 10
}
