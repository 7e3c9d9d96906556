// Package store defines the storage port the rest of the application
// depends on, implemented by the flat-document and sqlite backends.
package store

import (
	"context"
	"errors"

	"gastos/internal/core"
)

// ErrNotFound signals that the target of a replace, delete or status
// update does not exist. Callers treat it as a reportable no-op, not
// a failure.
var ErrNotFound = errors.New("expense not found")

// Store is the storage collaborator contract. Implementations may be
// a flat document rewritten whole on every mutation or a
// record-oriented database; readers and aggregation are agnostic.
type Store interface {
	// ListExpenses returns every stored record in storage order, with
	// raw date text preserved and amounts already parsed.
	ListExpenses(ctx context.Context) ([]core.Record, error)
	// InsertExpense appends a record and returns its identifier.
	InsertExpense(ctx context.Context, r core.Record) (int64, error)
	// ReplaceExpense overwrites the record with the given identifier.
	ReplaceExpense(ctx context.Context, id int64, r core.Record) error
	// DeleteExpense removes the record with the given identifier.
	DeleteExpense(ctx context.Context, id int64) error
	// UpdateStatus flips only the payment status of one record.
	UpdateStatus(ctx context.Context, id int64, status core.Status) error

	// ListCategories returns the explicit category list, possibly empty.
	ListCategories(ctx context.Context) ([]string, error)
	// InsertCategory adds a category name if not already present.
	InsertCategory(ctx context.Context, name string) error

	Close() error
}
