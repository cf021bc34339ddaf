// Package storage persists transactions and device preferences.
package storage

import (
	"context"
	"errors"

	"pengeluaran/internal/core"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// TransactionStore is the keyed record store behind the ledger.
// List methods return newest first.
type TransactionStore interface {
	Insert(ctx context.Context, tx core.Transaction) error
	Update(ctx context.Context, tx core.Transaction) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (core.Transaction, error)

	// ListBetween returns transactions with CreatedAt in [w.Start, w.End).
	ListBetween(ctx context.Context, w core.Window) ([]core.Transaction, error)
	// ListByKind is ListBetween restricted to one kind.
	ListByKind(ctx context.Context, kind core.Kind, w core.Window) ([]core.Transaction, error)
	ListByCategory(ctx context.Context, category core.Category) ([]core.Transaction, error)
}

// PreferenceStore is a small string key-value store.
type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error
}
