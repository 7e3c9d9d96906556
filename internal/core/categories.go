package core

import (
	"sort"
	"strings"
)

// DefaultCategories seeds the category picker when the store has no
// explicit list and no expenses to infer from.
func DefaultCategories() []string {
	return []string{"Alimentação", "Fixo", "Lazer", "Moradia", "Saúde", "Transporte"}
}

// ResolveCategories derives the working category set. An explicit
// stored list wins and is returned verbatim, in its stored order.
// Otherwise the distinct non-empty categories present in the records
// are collected, trimmed and sorted ascending. With neither, the
// default set is returned so the picker is never empty.
func ResolveCategories(stored []string, records []Record) []string {
	if len(stored) > 0 {
		return stored
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		c := strings.TrimSpace(r.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return DefaultCategories()
	}
	sort.Strings(out)
	return out
}
