// Package core implements the expense normalization and aggregation
// engine: amount parsing, date normalization, recurrence expansion,
// aggregation and category resolution.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a monetary amount in cents. Negative values are allowed;
// nothing in the original data model rejects a refund entered as a
// negative row.
type Money struct {
	Cents int64
}

// ParseAmount converts free-form currency text into Money. It accepts
// already-canonical values ("1234.56"), Brazilian formatting
// ("R$ 1.234,56"), and plain comma decimals ("12,50"). It never fails:
// input it cannot make sense of becomes zero, because this runs on
// untrusted form text where blocking the request is worse than a zero.
//
// When the text contains a comma it is read in the decimal-comma
// convention: dots are thousands separators and are dropped, the comma
// becomes the decimal point. Without a comma the text is parsed as-is.
func ParseAmount(raw string) Money {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Money{}
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	s = b.String()

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Money{}
	}
	return Money{Cents: int64(math.Round(v * 100))}
}

// Float64 returns the amount in currency units for display math.
// Use cents for anything that accumulates.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the canonical two-decimal dot form, e.g. "1234.56".
// ParseAmount is idempotent over this output.
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatBRL renders the amount the way the ledger displays it:
// "R$ 1.234,56", with dot thousands separators and a decimal comma.
func (m Money) FormatBRL() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), cents%100)
}
