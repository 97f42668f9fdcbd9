package service

import (
	"fmt"
	"strings"
	"time"
)

const periodDateLayout = "2006-01-02"

var cutoffLayouts = []string{
	periodDateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// ParseCutoffDate accepts an ISO date and a few common tape spellings.
func ParseCutoffDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range cutoffLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// MonthEnds returns horizon consecutive month-end dates, starting with the
// first month-end strictly after cutoff.
func MonthEnds(cutoff time.Time, horizon int) []time.Time {
	if horizon <= 0 {
		return nil
	}
	y, m, d := cutoff.Date()
	offset := 0
	if d == monthEnd(y, m).Day() {
		offset = 1
	}
	dates := make([]time.Time, horizon)
	for i := range dates {
		dates[i] = monthEnd(y, m+time.Month(offset+i))
	}
	return dates
}

func monthEnd(year int, month time.Month) time.Time {
	// Day 0 of the following month normalizes to the last day of month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

func formatPeriods(dates []time.Time) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format(periodDateLayout)
	}
	return labels
}
