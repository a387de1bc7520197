// Package store defines the interfaces the presentation layer uses to reach
// the expense repository, keeping handlers decoupled from the concrete
// SQLite implementation.
package store

import (
	"context"
	"errors"

	"tracker/internal/core"
)

// ErrNotFound is returned by reads and mutations that reference an id with
// no matching record, typically after the view has gone stale.
var ErrNotFound = errors.New("expense not found")

// ExpenseWriter persists new expenses.
type ExpenseWriter interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
}

// ExpenseLister reads expenses back, filtered and deterministically ordered.
type ExpenseLister interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error)
}

// ExpenseMutator rewrites or removes existing expenses.
type ExpenseMutator interface {
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

// TaxonomyReader lists the category labels already in use, for seeding
// the form selects alongside the defaults.
type TaxonomyReader interface {
	Categories(ctx context.Context) ([]string, error)
}
