package core

import (
	"strings"
	"time"
)

const canonicalLayout = "2006-01-02"

// Date is a calendar date with no time component, held in UTC.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateFrom truncates a time.Time to its calendar date.
func DateFrom(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string { return d.Format(canonicalLayout) }

// MonthKey renders the YYYY-MM grouping key. Lexical order on these
// keys is chronological order.
func (d Date) MonthKey() string { return d.Format("2006-01") }

// NormalizeDate converts either accepted textual form into a canonical
// Date. The input must be at least 10 characters and start with either
// YYYY-MM-DD or DD/MM/YYYY; anything past the first 10 characters is
// ignored. The hyphen form is tried first. Returns ok=false for
// anything that does not parse as a real calendar date; it is the
// caller's choice to keep the raw text for display.
func NormalizeDate(raw string) (Date, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 10 {
		return Date{}, false
	}
	s = s[:10]
	if t, err := time.Parse(canonicalLayout, s); err == nil {
		return DateFrom(t), true
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return DateFrom(t), true
	}
	return Date{}, false
}
