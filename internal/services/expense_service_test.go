package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gastos/internal/core"
	"gastos/internal/store"
)

// fakeStore is an in-memory Store for exercising the service flows.
type fakeStore struct {
	records    []core.Record
	categories []string
	nextID     int64
	listErr    error
}

func (f *fakeStore) ListExpenses(context.Context) ([]core.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]core.Record(nil), f.records...), nil
}

func (f *fakeStore) InsertExpense(_ context.Context, r core.Record) (int64, error) {
	r.ID = f.nextID
	f.nextID++
	f.records = append(f.records, r)
	return r.ID, nil
}

func (f *fakeStore) ReplaceExpense(_ context.Context, id int64, r core.Record) error {
	for i := range f.records {
		if f.records[i].ID == id {
			r.ID = id
			f.records[i] = r
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteExpense(_ context.Context, id int64) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, status core.Status) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) ListCategories(context.Context) ([]string, error) {
	return append([]string(nil), f.categories...), nil
}

func (f *fakeStore) InsertCategory(_ context.Context, name string) error {
	f.categories = append(f.categories, name)
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(f *fakeStore) *ExpenseService {
	clock := fixedClock{t: time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)}
	return NewExpenseService(f, nil, clock)
}

func TestCreateSingleExpense(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)

	n, err := svc.Create(context.Background(), core.Input{
		Date: "05/03/2024", Category: "Food", Description: "lunch", Amount: "R$ 12,50",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted %d, want 1", n)
	}
	r := f.records[0]
	if r.RawDate != "2024-03-05" || r.Date.String() != "2024-03-05" {
		t.Fatalf("date not canonicalized: %+v", r)
	}
	if r.Amount.Cents != 1250 {
		t.Fatalf("amount = %d, want 1250", r.Amount.Cents)
	}
	if r.Status != core.StatusPending {
		t.Fatalf("status should default to Pending, got %q", r.Status)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := newTestService(&fakeStore{})
	if _, err := svc.Create(context.Background(), core.Input{Category: "Food", Amount: "1"}); err != core.ErrMissingDate {
		t.Fatalf("got %v, want ErrMissingDate", err)
	}
}

func TestCreateFixoCategoryFansOut(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)

	n, err := svc.Create(context.Background(), core.Input{
		Date: "2024-01-31", Category: "fixo", Description: "rent", Amount: "1000,00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n != 12 {
		t.Fatalf("inserted %d, want 12", n)
	}
	if f.records[1].RawDate != "2024-02-29" {
		t.Fatalf("february should clamp to 29, got %q", f.records[1].RawDate)
	}
	if f.records[11].RawDate != "2024-12-31" {
		t.Fatalf("last record = %q, want 2024-12-31", f.records[11].RawDate)
	}
}

func TestCreateExplicitRecurringFlag(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)

	n, err := svc.Create(context.Background(), core.Input{
		Date: "2024-12-10", Category: "Internet", Amount: "99,90", Recurring: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n != 1 {
		t.Fatalf("december start should insert exactly 1, got %d", n)
	}
}

func TestCreateRecurringNeedsValidDate(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.Create(context.Background(), core.Input{
		Date: "soon", Category: "Fixo", Amount: "10",
	})
	if !errors.Is(err, ErrInvalidRecurrenceDate) {
		t.Fatalf("got %v, want ErrInvalidRecurrenceDate", err)
	}
}

func TestCreateKeepsRawUnparsableDate(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)

	if _, err := svc.Create(context.Background(), core.Input{
		Date: "someday", Category: "Food", Amount: "5",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.records[0].RawDate != "someday" || !f.records[0].Date.IsZero() {
		t.Fatalf("raw date should be retained unnormalized: %+v", f.records[0])
	}
}

func TestUpdatePreservesStatus(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.Input{Date: "2024-05-01", Category: "Food", Amount: "10", Status: "Paid"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Update(ctx, 0, core.Input{Date: "2024-05-02", Category: "Rent", Amount: "20"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	r := f.records[0]
	if r.Category != "Rent" || r.Amount.Cents != 2000 || r.RawDate != "2024-05-02" {
		t.Fatalf("update not applied: %+v", r)
	}
	if r.Status != core.StatusPaid {
		t.Fatalf("status must be preserved across edit, got %q", r.Status)
	}
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{})
	err := svc.Update(context.Background(), 99, core.Input{Date: "2024-05-01", Category: "X", Amount: "1"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestToggleStatus(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.Input{Date: "2024-05-01", Category: "Food", Amount: "10"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	status, err := svc.ToggleStatus(ctx, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if status != core.StatusPaid {
		t.Fatalf("first toggle = %q, want Paid", status)
	}
	status, err = svc.ToggleStatus(ctx, 0)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if status != core.StatusPending {
		t.Fatalf("second toggle = %q, want Pending", status)
	}

	if _, err := svc.ToggleStatus(ctx, 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{})
	if err := svc.Delete(context.Background(), 7); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDashboardAggregatesWithFixedClock(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)
	ctx := context.Background()

	inputs := []core.Input{
		{Date: "2024-05-01", Category: "Food", Amount: "10"},
		{Date: "2024-05-15", Category: "Food", Amount: "5"},
		{Date: "2024-05-01", Category: "Rent", Amount: "100"},
	}
	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	d := svc.GetDashboard(ctx)
	if d.Summary.CurrentMonthTotal.Cents != 11500 {
		t.Fatalf("current month = %d, want 11500", d.Summary.CurrentMonthTotal.Cents)
	}
	if len(d.Summary.Categories) != 2 || d.Summary.Categories[0].Name != "Rent" {
		t.Fatalf("category ranking wrong: %+v", d.Summary.Categories)
	}
	// No explicit category list stored, so the picker set is inferred.
	if len(d.Categories) != 2 || d.Categories[0] != "Food" || d.Categories[1] != "Rent" {
		t.Fatalf("categories = %v, want inferred [Food Rent]", d.Categories)
	}
}

func TestDashboardFailsOpenOnStoreError(t *testing.T) {
	f := &fakeStore{listErr: errors.New("disk on fire")}
	svc := newTestService(f)

	d := svc.GetDashboard(context.Background())
	if d.Summary.CurrentMonthTotal.Cents != 0 || len(d.Summary.Months) != 0 {
		t.Fatalf("broken store should aggregate as empty: %+v", d.Summary)
	}
	if len(d.Categories) == 0 {
		t.Fatal("category fallback set must still be offered")
	}
}

func TestListExpensesSortedDescending(t *testing.T) {
	f := &fakeStore{}
	svc := newTestService(f)
	ctx := context.Background()

	for _, in := range []core.Input{
		{Date: "2024-01-01", Category: "A", Amount: "1"},
		{Date: "2024-06-01", Category: "B", Amount: "2"},
		{Date: "garbage", Category: "C", Amount: "3"},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items := svc.ListExpenses(ctx)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].DisplayDate != "garbage" {
		// "garbage" sorts above "2024-..." lexically, matching the
		// original's raw-text fallback ordering.
		t.Fatalf("order wrong: %+v", items)
	}
	if items[1].DisplayDate != "2024-06-01" || items[2].DisplayDate != "2024-01-01" {
		t.Fatalf("dates should sort descending: %+v", items)
	}
	if items[0].DateValid {
		t.Fatal("unparsable date should be flagged invalid")
	}
}
