// Package services orchestrates expense flows across the storage
// backend and the optional event publisher.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/store"
)

// ExpenseService implements the application flows: create (with
// recurrence fan-out), edit, delete, status toggle, dashboard
// aggregation, listing and category resolution. It holds no state
// between calls; every operation re-reads the store.
type ExpenseService struct {
	store  store.Store
	events *amqp.Client
	clock  core.Clock
}

func NewExpenseService(st store.Store, events *amqp.Client, clock core.Clock) *ExpenseService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &ExpenseService{
		store:  st,
		events: events,
		clock:  clock,
	}
}

// ListItem is a record prepared for presentation: a display-safe date
// string plus the stable identifier edit/delete links use.
type ListItem struct {
	ID          int64
	DisplayDate string
	Category    string
	Description string
	Amount      core.Money
	Status      core.Status
	DateValid   bool
}

// Dashboard holds everything the overview page renders.
type Dashboard struct {
	Summary    core.Summary
	Categories []string
}

// loadRecords reads the full record set, degrading to an empty store
// when the backend fails so a broken file or database never takes the
// read paths down.
func (s *ExpenseService) loadRecords(ctx context.Context) []core.Record {
	records, err := s.store.ListExpenses(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Listing expenses failed, treating store as empty", "error", err)
		return nil
	}
	return records
}

func (s *ExpenseService) loadCategories(ctx context.Context) []string {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Listing categories failed, treating list as empty", "error", err)
		return nil
	}
	return cats
}

// GetDashboard aggregates the current store contents.
func (s *ExpenseService) GetDashboard(ctx context.Context) Dashboard {
	records := s.loadRecords(ctx)
	return Dashboard{
		Summary:    core.Aggregate(records, s.clock.Now()),
		Categories: core.ResolveCategories(s.loadCategories(ctx), records),
	}
}

// ListExpenses returns presentation-ready items sorted by date
// descending. Records whose date never normalized sort by their raw
// text, which keeps them visible without inventing a date for them.
func (s *ExpenseService) ListExpenses(ctx context.Context) []ListItem {
	records := s.loadRecords(ctx)
	items := make([]ListItem, len(records))
	for i, r := range records {
		display := r.RawDate
		if !r.Date.IsZero() {
			display = r.Date.String()
		}
		items[i] = ListItem{
			ID:          r.ID,
			DisplayDate: display,
			Category:    r.CategoryLabel(),
			Description: r.Description,
			Amount:      r.Amount,
			Status:      r.Status,
			DateValid:   !r.Date.IsZero(),
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayDate > items[j].DisplayDate
	})
	return items
}

// Categories resolves the working category set for pickers.
func (s *ExpenseService) Categories(ctx context.Context) []string {
	return core.ResolveCategories(s.loadCategories(ctx), s.loadRecords(ctx))
}

// AddCategory registers a new category name.
func (s *ExpenseService) AddCategory(ctx context.Context, name string) error {
	if err := s.store.InsertCategory(ctx, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

// Create validates the input and inserts one record, or a monthly
// series through December when recurrence applies (the explicit flag
// or the "Fixo" category). Returns how many records were inserted.
func (s *ExpenseService) Create(ctx context.Context, in core.Input) (int, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	date, dateOK := core.NormalizeDate(in.Date)
	amount := core.ParseAmount(in.Amount)
	status := core.NormalizeStatus(in.Status)

	if in.RequestsRecurrence() {
		if !dateOK {
			// Expansion needs a canonical start date; a silent single
			// insert would hide the user's intent.
			return 0, ErrInvalidRecurrenceDate
		}
		inserted := 0
		for _, d := range core.ExpandToYearEnd(date) {
			rec := core.Record{
				RawDate:     d.String(),
				Date:        d,
				Category:    in.Category,
				Description: in.Description,
				Amount:      amount,
				Status:      status,
			}
			id, err := s.store.InsertExpense(ctx, rec)
			if err != nil {
				return inserted, fmt.Errorf("insert recurring expense: %w", err)
			}
			inserted++
			s.publish(ctx, amqp.EventExpenseCreated, id, rec)
		}
		slog.InfoContext(ctx, "Recurring expense expanded",
			"category", in.Category,
			"start", date.String(),
			"inserted", inserted)
		return inserted, nil
	}

	rec := core.Record{
		RawDate:     in.Date,
		Category:    in.Category,
		Description: in.Description,
		Amount:      amount,
		Status:      status,
	}
	if dateOK {
		rec.Date = date
		rec.RawDate = date.String()
	}
	id, err := s.store.InsertExpense(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	s.publish(ctx, amqp.EventExpenseCreated, id, rec)
	return 1, nil
}

// ErrInvalidRecurrenceDate rejects recurrence requests whose start
// date cannot be normalized.
var ErrInvalidRecurrenceDate = errors.New("recurring expense needs a valid date")

// Update replaces date, category, description and amount of one
// record, preserving its payment status.
func (s *ExpenseService) Update(ctx context.Context, id int64, in core.Input) error {
	if err := in.Validate(); err != nil {
		return err
	}

	current, ok := s.find(ctx, id)
	if !ok {
		return store.ErrNotFound
	}

	rec := core.Record{
		RawDate:     in.Date,
		Category:    in.Category,
		Description: in.Description,
		Amount:      core.ParseAmount(in.Amount),
		Status:      current.Status,
	}
	if d, dateOK := core.NormalizeDate(in.Date); dateOK {
		rec.Date = d
		rec.RawDate = d.String()
	}

	if err := s.store.ReplaceExpense(ctx, id, rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("replace expense: %w", err)
	}
	s.publish(ctx, amqp.EventExpenseUpdated, id, rec)
	return nil
}

// Delete removes one record.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, amqp.EventExpenseDeleted, id, core.Record{})
	return nil
}

// ToggleStatus flips a record between Pending and Paid and returns
// the new status.
func (s *ExpenseService) ToggleStatus(ctx context.Context, id int64) (core.Status, error) {
	current, ok := s.find(ctx, id)
	if !ok {
		return "", store.ErrNotFound
	}
	next := current.Status.Toggle()
	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("update status: %w", err)
	}
	rec := current
	rec.Status = next
	s.publish(ctx, amqp.EventExpenseStatusChanged, id, rec)
	return next, nil
}

// Get returns a single record for the edit form.
func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Record, bool) {
	return s.find(ctx, id)
}

func (s *ExpenseService) find(ctx context.Context, id int64) (core.Record, bool) {
	for _, r := range s.loadRecords(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return core.Record{}, false
}

// publish emits a lifecycle event without ever failing the request.
func (s *ExpenseService) publish(ctx context.Context, eventType string, id int64, rec core.Record) {
	event := amqp.NewExpenseEvent(eventType, id)
	event.Category = rec.Category
	event.AmountCents = rec.Amount.Cents
	event.Status = string(rec.Status)
	if err := s.events.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"type", eventType, "id", id, "error", err)
	}
}

// Close releases the store and the event publisher.
func (s *ExpenseService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if err := s.events.Close(); err != nil {
		errs = append(errs, fmt.Errorf("amqp: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
