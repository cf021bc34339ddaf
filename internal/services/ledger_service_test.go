package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"pengeluaran/internal/core"
	"pengeluaran/internal/settings"
	"pengeluaran/internal/storage"
	"pengeluaran/internal/storage/memory"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *LedgerService
	store *memory.Store
	now   *time.Time
}

func newFixture(t *testing.T, seed ...core.Transaction) fixture {
	t.Helper()
	store := memory.New(seed...)
	now := testNow
	n := 0
	currency := settings.LoadCurrency(context.Background(), store, "IDR", nil)
	svc := NewLedgerService(store, currency,
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	return fixture{svc: svc, store: store, now: &now}
}

func at(days int) int64 {
	return testNow.AddDate(0, 0, -days).UnixMilli()
}

func seedTx(id string, kind core.Kind, amount float64, category string, createdAt int64) core.Transaction {
	return core.Transaction{ID: id, Kind: kind, Amount: amount, Category: core.ParseCategory(category), CreatedAt: createdAt}
}

func TestLedgerService_Add(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tx, err := f.svc.Add(ctx, NewTransaction{
		Kind:        core.Expense,
		Amount:      35000,
		Category:    core.ParseCategory("food"),
		Description: "  nasi goreng  ",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tx.ID != "id-1" || tx.CreatedAt != testNow.UnixMilli() || tx.UpdatedAt != 0 {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.Description != "nasi goreng" {
		t.Fatalf("description not trimmed: %q", tx.Description)
	}
	if f.store.Len() != 1 {
		t.Fatalf("store has %d items, want 1", f.store.Len())
	}

	_, err = f.svc.Add(ctx, NewTransaction{Kind: core.Expense, Amount: -1, Category: core.ParseCategory("food")})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("negative amount error = %v", err)
	}
	_, err = f.svc.Add(ctx, NewTransaction{Kind: "loan", Amount: 1, Category: core.ParseCategory("food")})
	if !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("bad kind error = %v", err)
	}
}

func TestLedgerService_DefaultIDsAreUnique(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		tx, err := svc.Add(context.Background(), NewTransaction{Kind: core.Income, Amount: 1, Category: core.ParseCategory("gift")})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %s", tx.ID)
		}
		seen[tx.ID] = true
	}
	if svc.Currency().Code() != core.DefaultCurrency {
		t.Fatalf("nil currency should default to %s", core.DefaultCurrency)
	}
}

func TestLedgerService_Edit(t *testing.T) {
	f := newFixture(t, seedTx("a", core.Expense, 10000, "food", at(1)))
	ctx := context.Background()
	*f.now = testNow.Add(time.Hour)

	amount := 12000.0
	cat := core.ParseCategory("Kopi")
	desc := "latte"
	tx, err := f.svc.Edit(ctx, "a", TransactionPatch{Amount: &amount, Category: &cat, Description: &desc})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if tx.Amount != 12000 || tx.Category != cat || tx.Description != "latte" {
		t.Fatalf("patch not applied: %+v", tx)
	}
	if tx.UpdatedAt != testNow.Add(time.Hour).UnixMilli() {
		t.Fatalf("UpdatedAt = %d", tx.UpdatedAt)
	}
	if tx.CreatedAt != at(1) {
		t.Fatalf("CreatedAt must not change")
	}

	if _, err := f.svc.Edit(ctx, "a", TransactionPatch{}); !errors.Is(err, ErrEmptyPatch) {
		t.Fatalf("empty patch error = %v", err)
	}
	if _, err := f.svc.Edit(ctx, "zzz", TransactionPatch{Amount: &amount}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing id error = %v", err)
	}
	bad := -5.0
	if _, err := f.svc.Edit(ctx, "a", TransactionPatch{Amount: &bad}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("invalid patch error = %v", err)
	}
	stored, _ := f.store.Get(ctx, "a")
	if stored.Amount != 12000 {
		t.Fatalf("invalid patch must not be stored, amount = %v", stored.Amount)
	}
}

func TestLedgerService_Remove(t *testing.T) {
	f := newFixture(t, seedTx("a", core.Expense, 1, "food", at(1)))
	ctx := context.Background()
	if err := f.svc.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.svc.Remove(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second Remove error = %v", err)
	}
}

func TestLedgerService_List(t *testing.T) {
	f := newFixture(t,
		seedTx("today", core.Expense, 1, "food", testNow.UnixMilli()),
		seedTx("d3", core.Expense, 1, "food", at(3)),
		seedTx("d10", core.Income, 1, "salary", at(10)),
		seedTx("d40", core.Expense, 1, "gift", at(40)),
		seedTx("d200", core.Expense, 1, "gift", at(200)),
		seedTx("d500", core.Expense, 1, "gift", at(500)),
	)
	ctx := context.Background()

	tests := []struct {
		period core.Period
		want   []string
	}{
		{core.Last7Days, []string{"today", "d3"}},
		{core.Last30Days, []string{"today", "d3", "d10"}},
		{core.Last6Months, []string{"today", "d3", "d10", "d40"}},
		{core.Last12Months, []string{"today", "d3", "d10", "d40", "d200"}},
		{core.AllTime, []string{"today", "d3", "d10", "d40", "d200", "d500"}},
		{core.Period("quarter"), []string{"today", "d3", "d10", "d40", "d200", "d500"}},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			txs, w, err := f.svc.List(ctx, tt.period)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if w.End != testNow.UnixMilli() {
				t.Fatalf("window end = %d", w.End)
			}
			if len(txs) != len(tt.want) {
				t.Fatalf("got %d transactions, want %v", len(txs), tt.want)
			}
			for i, id := range tt.want {
				if txs[i].ID != id {
					t.Fatalf("position %d = %s, want %s", i, txs[i].ID, id)
				}
			}
		})
	}
}

func TestLedgerService_ListCategory(t *testing.T) {
	f := newFixture(t,
		seedTx("a", core.Expense, 1, "Kopi", at(1)),
		seedTx("b", core.Expense, 1, "food", at(2)),
	)
	txs, err := f.svc.ListCategory(context.Background(), core.ParseCategory("Kopi"))
	if err != nil || len(txs) != 1 || txs[0].ID != "a" {
		t.Fatalf("ListCategory = %v, %v", txs, err)
	}
}

func TestLedgerService_Summarize(t *testing.T) {
	f := newFixture(t,
		seedTx("s1", core.Income, 5000000, "salary", at(2)),
		seedTx("e1", core.Expense, 0.1, "food", at(1)),
		seedTx("e2", core.Expense, 0.2, "food", at(1)),
		seedTx("e3", core.Expense, 300000, "transport", at(3)),
		seedTx("e4", core.Expense, 300000, "Kopi", at(4)),
		seedTx("old", core.Expense, 999, "food", at(90)),
	)

	s, err := f.svc.Summarize(context.Background(), core.Last30Days)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Income != 5000000 || s.Expense != 600000.3 || s.Count != 5 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.Balance != 4399999.7 {
		t.Fatalf("Balance = %v", s.Balance)
	}
	if s.Currency != "IDR" {
		t.Fatalf("Currency = %q", s.Currency)
	}

	if len(s.ByCategory) != 3 {
		t.Fatalf("ByCategory = %+v", s.ByCategory)
	}
	// Ties on amount are ordered by name.
	if s.ByCategory[0].Category.String() != "Kopi" || s.ByCategory[1].Category.String() != "transport" {
		t.Fatalf("unexpected order: %+v", s.ByCategory)
	}
	food := s.ByCategory[2]
	if food.Amount != 0.3 || food.Count != 2 {
		t.Fatalf("food total = %+v", food)
	}
	var share float64
	for _, c := range s.ByCategory {
		share += c.Share
	}
	if math.Abs(share-1) > 1e-9 {
		t.Fatalf("shares sum to %v", share)
	}
}

func TestLedgerService_SummarizeFoldsLabelCase(t *testing.T) {
	f := newFixture(t,
		seedTx("new", core.Expense, 30, "Groceries", at(1)),
		seedTx("mid", core.Expense, 20, "groceries", at(2)),
		seedTx("old", core.Expense, 10, "GROCERIES", at(3)),
		seedTx("f", core.Expense, 5, "food", at(1)),
	)

	s, err := f.svc.Summarize(context.Background(), core.Last30Days)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(s.ByCategory) != 2 {
		t.Fatalf("ByCategory = %+v", s.ByCategory)
	}
	g := s.ByCategory[0]
	if g.Category.String() != "Groceries" || g.Amount != 60 || g.Count != 3 {
		t.Fatalf("groceries slice = %+v", g)
	}

	txs, err := f.svc.ListCategory(context.Background(), core.ParseCategory("groceries"))
	if err != nil {
		t.Fatalf("ListCategory: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("ListCategory groceries returned %d transactions", len(txs))
	}
}

func TestLedgerService_SummarizeEmpty(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.Summarize(context.Background(), core.Last7Days)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Income != 0 || s.Expense != 0 || len(s.ByCategory) != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) ListByKind(context.Context, core.Kind, core.Window) ([]core.Transaction, error) {
	return nil, errors.New("disk I/O error")
}

func TestLedgerService_SummarizeStoreError(t *testing.T) {
	svc := NewLedgerService(brokenStore{memory.New()}, nil)
	if _, err := svc.Summarize(context.Background(), core.AllTime); err == nil {
		t.Fatal("expected error")
	}
}

func TestLedgerService_Render(t *testing.T) {
	f := newFixture(t)
	txs := []core.Transaction{
		seedTx("a", core.Expense, 1500000, "food", testNow.UnixMilli()),
	}
	rows := f.svc.Render(txs)
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	want := Row{ID: "a", Date: "16 Okt 2026", Kind: core.Expense, Category: "food", Amount: "Rp\u00a01.500.000"}
	if rows[0] != want {
		t.Fatalf("row = %+v, want %+v", rows[0], want)
	}

	if err := f.svc.Currency().Set(context.Background(), "USD"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := f.svc.Render(txs)[0].Amount; got != "$1,500,000.00" {
		t.Fatalf("amount after currency change = %q", got)
	}
}
