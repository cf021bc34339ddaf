package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pengeluaran/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores transactions and preferences in a single SQLite
// file on the device.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ TransactionStore = (*SQLiteRepository)(nil)
	_ PreferenceStore  = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := r.queries.CreateTransaction(ctx, toRow(tx)); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"kind", tx.Kind,
		"amount", tx.Amount,
		"category", tx.Category.String())
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	n, err := r.queries.UpdateTransaction(ctx, toRow(tx))
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update transaction %s: %w", tx.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return fromRow(row), nil
}

func (r *SQLiteRepository) ListBetween(ctx context.Context, w core.Window) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsBetween(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("list transactions between: %w", err)
	}
	return fromRows(rows), nil
}

func (r *SQLiteRepository) ListByKind(ctx context.Context, kind core.Kind, w core.Window) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByKind(ctx, string(kind), w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("list %s transactions: %w", kind, err)
	}
	return fromRows(rows), nil
}

func (r *SQLiteRepository) ListByCategory(ctx context.Context, category core.Category) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByCategory(ctx, category.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions for category %s: %w", category, err)
	}
	return fromRows(rows), nil
}

func (r *SQLiteRepository) GetPreference(ctx context.Context, key string) (string, bool, error) {
	value, err := r.queries.GetPreference(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) SetPreference(ctx context.Context, key, value string) error {
	if err := r.queries.UpsertPreference(ctx, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	slog.DebugContext(ctx, "Preference saved", "key", key, "value", value)
	return nil
}

func toRow(tx core.Transaction) Transaction {
	row := Transaction{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Amount:      tx.Amount,
		Category:    tx.Category.String(),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.UpdatedAt != 0 {
		row.UpdatedAt = sql.NullInt64{Int64: tx.UpdatedAt, Valid: true}
	}
	return row
}

func fromRow(row Transaction) core.Transaction {
	return core.Transaction{
		ID:          row.ID,
		Kind:        core.Kind(row.Kind),
		Amount:      row.Amount,
		Category:    core.ParseCategory(row.Category),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt.Int64,
	}
}

func fromRows(rows []Transaction) []core.Transaction {
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
