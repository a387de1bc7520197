package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tracker/internal/core"
	"tracker/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func mustInsert(t *testing.T, repo *SQLiteRepository, e core.Expense) int64 {
	t.Helper()
	id, err := repo.Insert(context.Background(), e)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return id
}

func expense(date core.Date, category string, cents int64) core.Expense {
	return core.Expense{
		Date:          date,
		Category:      category,
		Description:   "test",
		Amount:        core.Money{Cents: cents},
		PaymentMethod: "Card",
	}
}

func TestInsertAndListRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.Expense{
		Date:          core.NewDate(2024, 1, 5),
		Category:      "Food",
		Description:   "groceries",
		Amount:        core.Money{Cents: 2000},
		PaymentMethod: "Cash",
	}
	id := mustInsert(t, repo, in)
	if id < 1 {
		t.Fatalf("expected positive id, got %d", id)
	}

	items, err := repo.ListExpenses(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}
	got := items[0]
	if got.ID != id || got.Date.String() != "2024-01-05" || got.Category != "Food" ||
		got.Description != "groceries" || got.Amount.Cents != 2000 || got.PaymentMethod != "Cash" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestInsertValidation(t *testing.T) {
	repo := newTestRepo(t)

	bad := expense(core.NewDate(2024, 1, 5), "Food", 0)
	if _, err := repo.Insert(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	items, err := repo.ListExpenses(context.Background(), core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected insert must not persist, got %d records", len(items))
	}
}

func TestListFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id1 := mustInsert(t, repo, expense(core.NewDate(2024, 1, 5), "Food", 2000))
	id2 := mustInsert(t, repo, expense(core.NewDate(2024, 1, 20), "Food", 1500))
	id3 := mustInsert(t, repo, expense(core.NewDate(2024, 2, 1), "Transport", 5000))

	cases := []struct {
		name    string
		f       core.Filter
		wantIDs []int64
	}{
		{"no filter", core.Filter{}, []int64{id3, id2, id1}},
		{"january", core.Filter{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31)}, []int64{id2, id1}},
		{"inclusive bounds", core.Filter{From: core.NewDate(2024, 1, 5), To: core.NewDate(2024, 1, 20)}, []int64{id2, id1}},
		{"category", core.Filter{Category: "Transport"}, []int64{id3}},
		{"category all", core.Filter{Category: "All"}, []int64{id3, id2, id1}},
		{"january food", core.Filter{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31), Category: "Food"}, []int64{id2, id1}},
		{"empty range", core.Filter{From: core.NewDate(2025, 1, 1), To: core.NewDate(2025, 1, 31)}, nil},
	}

	for _, tc := range cases {
		items, err := repo.ListExpenses(ctx, tc.f)
		if err != nil {
			t.Fatalf("%s: list: %v", tc.name, err)
		}
		if len(items) != len(tc.wantIDs) {
			t.Fatalf("%s: expected %d records, got %d", tc.name, len(tc.wantIDs), len(items))
		}
		for i, want := range tc.wantIDs {
			if items[i].ID != want {
				t.Fatalf("%s: position %d: expected id %d, got %d", tc.name, i, want, items[i].ID)
			}
		}
	}
}

func TestListOrderSameDate(t *testing.T) {
	repo := newTestRepo(t)

	first := mustInsert(t, repo, expense(core.NewDate(2024, 3, 10), "Food", 100))
	second := mustInsert(t, repo, expense(core.NewDate(2024, 3, 10), "Food", 200))

	items, err := repo.ListExpenses(context.Background(), core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Newest insert of the same day comes first.
	if items[0].ID != second || items[1].ID != first {
		t.Fatalf("unexpected order: %d, %d", items[0].ID, items[1].ID)
	}
}

func TestGetExpense(t *testing.T) {
	repo := newTestRepo(t)

	id := mustInsert(t, repo, expense(core.NewDate(2024, 1, 5), "Food", 2000))

	got, err := repo.GetExpense(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id || got.Category != "Food" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := repo.GetExpense(context.Background(), id+100); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	target := mustInsert(t, repo, expense(core.NewDate(2024, 1, 5), "Food", 2000))
	other := mustInsert(t, repo, expense(core.NewDate(2024, 1, 20), "Food", 1500))

	updated := core.Expense{
		ID:            target,
		Date:          core.NewDate(2024, 1, 6),
		Category:      "Transport",
		Description:   "bus pass",
		Amount:        core.Money{Cents: 4200},
		PaymentMethod: "UPI",
	}
	if err := repo.UpdateExpense(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetExpense(ctx, target)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date.String() != "2024-01-06" || got.Category != "Transport" ||
		got.Description != "bus pass" || got.Amount.Cents != 4200 || got.PaymentMethod != "UPI" {
		t.Fatalf("update not reflected: %+v", got)
	}

	// Other records are untouched.
	untouched, err := repo.GetExpense(ctx, other)
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if untouched.Category != "Food" || untouched.Amount.Cents != 1500 {
		t.Fatalf("unrelated record changed: %+v", untouched)
	}

	// Unknown id.
	missing := updated
	missing.ID = target + 100
	if err := repo.UpdateExpense(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Same validation as insert.
	invalid := updated
	invalid.Amount = core.Money{Cents: 0}
	if err := repo.UpdateExpense(ctx, invalid); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustInsert(t, repo, expense(core.NewDate(2024, 1, 5), "Food", 2000))

	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := repo.ListExpenses(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, e := range items {
		if e.ID == id {
			t.Fatalf("deleted record still listed")
		}
	}

	if err := repo.DeleteExpense(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cats, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("expected no categories, got %v", cats)
	}

	mustInsert(t, repo, expense(core.NewDate(2024, 1, 5), "Food", 100))
	mustInsert(t, repo, expense(core.NewDate(2024, 1, 6), "Food", 100))
	mustInsert(t, repo, expense(core.NewDate(2024, 1, 7), "Coffee", 100))

	cats, err = repo.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Coffee" || cats[1] != "Food" {
		t.Fatalf("expected [Coffee Food], got %v", cats)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "expenses.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	mustInsert(t, repo, expense(core.NewDate(2024, 1, 5), "Food", 100))
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening runs migrations again and keeps existing data.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer repo.Close()

	items, err := repo.ListExpenses(context.Background(), core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(items))
	}
}
