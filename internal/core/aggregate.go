package core

import (
	"sort"
	"time"
)

type (
	// MonthTotal is the summed amount for one YYYY-MM key.
	MonthTotal struct {
		Month string
		Total Money
	}

	// CategoryTotal is the summed amount for one category label.
	CategoryTotal struct {
		Name  string
		Total Money
	}

	// StatusBreakdown splits the current month's expenses into paid
	// and pending buckets, with both amounts and counts.
	StatusBreakdown struct {
		PaidTotal    Money
		PendingTotal Money
		PaidCount    int
		PendingCount int
	}

	// Summary is the full output of one aggregation pass.
	Summary struct {
		CurrentMonthTotal Money
		CurrentYearTotal  Money
		Months            []MonthTotal    // ascending by month key
		Categories        []CategoryTotal // descending by amount, ties by name
		Status            StatusBreakdown // current month only
	}
)

// Aggregate folds the record set into every derived view in a single
// pass. Records without a canonical date are skipped from every
// total, including the unconditional month table. "Current" month and
// year are taken from now, which callers obtain from a Clock.
func Aggregate(records []Record, now time.Time) Summary {
	var s Summary
	monthTotals := make(map[string]int64)
	categoryTotals := make(map[string]int64)

	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		monthTotals[r.Date.MonthKey()] += r.Amount.Cents
		categoryTotals[r.CategoryLabel()] += r.Amount.Cents

		if r.Date.Year() != now.Year() {
			continue
		}
		s.CurrentYearTotal.Cents += r.Amount.Cents
		if r.Date.Month() != int(now.Month()) {
			continue
		}
		s.CurrentMonthTotal.Cents += r.Amount.Cents
		if r.Status == StatusPaid {
			s.Status.PaidTotal.Cents += r.Amount.Cents
			s.Status.PaidCount++
		} else {
			s.Status.PendingTotal.Cents += r.Amount.Cents
			s.Status.PendingCount++
		}
	}

	s.Months = make([]MonthTotal, 0, len(monthTotals))
	for k, v := range monthTotals {
		s.Months = append(s.Months, MonthTotal{Month: k, Total: Money{Cents: v}})
	}
	sort.Slice(s.Months, func(i, j int) bool {
		return s.Months[i].Month < s.Months[j].Month
	})

	s.Categories = make([]CategoryTotal, 0, len(categoryTotals))
	for k, v := range categoryTotals {
		s.Categories = append(s.Categories, CategoryTotal{Name: k, Total: Money{Cents: v}})
	}
	// Descending by amount; equal amounts fall back to name order so
	// the ranking is stable across runs.
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Total.Cents != s.Categories[j].Total.Cents {
			return s.Categories[i].Total.Cents > s.Categories[j].Total.Cents
		}
		return s.Categories[i].Name < s.Categories[j].Name
	})

	return s
}
