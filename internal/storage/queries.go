package storage

import (
	"context"
	"database/sql"
)

// Queries holds the SQL used by SQLiteRepository. It works on either a
// *sql.DB or a *sql.Tx.
type Queries struct {
	db DBTX
}

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Transaction mirrors a row of the transactions table.
type Transaction struct {
	ID          string
	Kind        string
	Amount      float64
	Category    string
	Description string
	CreatedAt   int64
	UpdatedAt   sql.NullInt64
}

const transactionColumns = `id, kind, amount, category, description, created_at, updated_at`

const createTransaction = `
INSERT INTO transactions (` + transactionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, arg Transaction) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID, arg.Kind, arg.Amount, arg.Category, arg.Description, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const updateTransaction = `
UPDATE transactions
SET kind = ?, amount = ?, category = ?, description = ?, created_at = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, arg Transaction) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Kind, arg.Amount, arg.Category, arg.Description, arg.CreatedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var t Transaction
	err := row.Scan(&t.ID, &t.Kind, &t.Amount, &t.Category, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

const listTransactionsBetween = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE created_at >= ? AND created_at < ?
ORDER BY created_at DESC, id`

func (q *Queries) ListTransactionsBetween(ctx context.Context, start, end int64) ([]Transaction, error) {
	return q.list(ctx, listTransactionsBetween, start, end)
}

const listTransactionsByKind = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE kind = ? AND created_at >= ? AND created_at < ?
ORDER BY created_at DESC, id`

func (q *Queries) ListTransactionsByKind(ctx context.Context, kind string, start, end int64) ([]Transaction, error) {
	return q.list(ctx, listTransactionsByKind, kind, start, end)
}

const listTransactionsByCategory = `
SELECT ` + transactionColumns + ` FROM transactions
WHERE category = ? COLLATE NOCASE
ORDER BY created_at DESC, id`

func (q *Queries) ListTransactionsByCategory(ctx context.Context, category string) ([]Transaction, error) {
	return q.list(ctx, listTransactionsByCategory, category)
}

func (q *Queries) list(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Kind, &t.Amount, &t.Category, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPreference = `SELECT value FROM preferences WHERE key = ?`

func (q *Queries) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getPreference, key).Scan(&value)
	return value, err
}

const upsertPreference = `
INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (q *Queries) UpsertPreference(ctx context.Context, key, value string, updatedAt int64) error {
	_, err := q.db.ExecContext(ctx, upsertPreference, key, value, updatedAt)
	return err
}
