package core

import (
	"errors"
	"strings"
)

// Uncategorized is the label substituted for records without a
// category so aggregation never produces an empty key.
const Uncategorized = "Uncategorized"

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

type (
	// Status marks whether an expense has been paid. Records coming
	// from older stores may not carry one; NormalizeStatus defaults
	// to Pending.
	Status string

	// Record is one ledger entry. RawDate preserves the stored text
	// as entered; Date is the canonical form and is zero when the raw
	// text could not be normalized, in which case the record is shown
	// in listings but excluded from every date-keyed aggregate.
	Record struct {
		ID          int64
		RawDate     string
		Date        Date
		Category    string
		Description string
		Amount      Money
		Status      Status
	}
)

var (
	ErrMissingDate     = errors.New("missing date")
	ErrMissingCategory = errors.New("missing category")
	ErrMissingAmount   = errors.New("missing amount")
)

// NormalizeStatus maps stored status text onto the two known states.
// The comparison is case-insensitive against "Paid"; anything else,
// including the empty string, counts as Pending.
func NormalizeStatus(raw string) Status {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusPaid)) {
		return StatusPaid
	}
	return StatusPending
}

// Toggle flips Paid to Pending and everything else to Paid.
func (s Status) Toggle() Status {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

// CategoryLabel returns the record's category or the Uncategorized
// sentinel when it is blank.
func (r Record) CategoryLabel() string {
	if strings.TrimSpace(r.Category) == "" {
		return Uncategorized
	}
	return r.Category
}

// Input holds the raw form fields of an add or edit request before
// normalization.
type Input struct {
	Date        string
	Category    string
	Description string
	Amount      string
	Status      string
	// Recurring requests month-by-month replication through year end.
	// The legacy category name "Fixo" implies it as well.
	Recurring bool
}

// Validate enforces the required fields of a write: date, category and
// amount must be present. Amount content is never validated here; the
// parser coerces anything to a number.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Date) == "" {
		return ErrMissingDate
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrMissingCategory
	}
	if strings.TrimSpace(in.Amount) == "" {
		return ErrMissingAmount
	}
	return nil
}

// RequestsRecurrence reports whether the input should fan out into
// monthly records: either the explicit flag or the legacy "Fixo"
// category naming convention.
func (in Input) RequestsRecurrence() bool {
	return in.Recurring || strings.EqualFold(strings.TrimSpace(in.Category), "Fixo")
}
