package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var numberNoise = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "₹", "", " ", "")

// parseNumber reads a numeric cell, ignoring thousands separators and
// currency symbols. Non-finite results are rejected.
func parseNumber(s string) (float64, bool) {
	s = numberNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// dateLayouts are tried in order. Numeric day/month layouts are
// month-first.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-1-2",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1-2-2006",
	"1-2-06",
	"1/2/06",
	"2-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"20060102",
}

// parseDate reads a date cell. Unrecognized text reports false.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
