package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	r, err := NewRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestInsertCategoryTrimsAndSkipsEmpty(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	if err := r.InsertCategory(ctx, "  Food "); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := r.InsertCategory(ctx, "Food"); err != nil {
		t.Fatalf("duplicate insert should be a no-op: %v", err)
	}
	if err := r.InsertCategory(ctx, "   "); err != nil {
		t.Fatalf("blank insert should be a no-op: %v", err)
	}

	cats, err := r.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 1 || cats[0] != "Food" {
		t.Fatalf("categories = %v, want [Food]", cats)
	}
}
