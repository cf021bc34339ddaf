// Package services provides the ledger use cases on top of the stores.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"pengeluaran/internal/core"
	applog "pengeluaran/internal/log"
	"pengeluaran/internal/settings"
	"pengeluaran/internal/storage"
)

var ErrEmptyPatch = errors.New("nothing to update")

// LedgerService records transactions and answers period based queries.
// Every window is computed from the injected clock.
type LedgerService struct {
	store    storage.TransactionStore
	currency *settings.Currency
	clock    core.Clock
	dates    core.DateFormatter
	logger   *applog.Logger
	newID    func() string
}

// Option configures a LedgerService.
type Option func(*LedgerService)

func WithClock(clock core.Clock) Option {
	return func(s *LedgerService) { s.clock = clock }
}

// WithLocation sets the zone used for calendar math and date display.
func WithLocation(loc *time.Location) Option {
	return func(s *LedgerService) { s.dates = core.NewDateFormatter(loc) }
}

func WithLogger(logger *applog.Logger) Option {
	return func(s *LedgerService) { s.logger = logger.WithComponent(applog.ComponentLedger) }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *LedgerService) { s.newID = newID }
}

func NewLedgerService(store storage.TransactionStore, currency *settings.Currency, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		currency: currency,
		clock:    core.SystemClock,
		dates:    core.NewDateFormatter(time.UTC),
		logger:   applog.Discard(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.currency == nil {
		s.currency = settings.LoadCurrency(context.Background(), nil, core.DefaultCurrency, nil)
	}
	return s
}

// NewTransaction is the user input for Add.
type NewTransaction struct {
	Kind        core.Kind
	Amount      float64
	Category    core.Category
	Description string
}

// TransactionPatch lists the fields Edit may change. Nil means unchanged.
type TransactionPatch struct {
	Amount      *float64
	Category    *core.Category
	Description *string
}

func (p TransactionPatch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil
}

// Add stores a new transaction stamped with the current time.
func (s *LedgerService) Add(ctx context.Context, in NewTransaction) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          s.newID(),
		Kind:        in.Kind,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   core.Millis(s.clock()),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.Insert(ctx, tx); err != nil {
		s.logFailure(ctx, "Failed to create transaction", err, applog.OpCreate)
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		applog.NewFields().
			WithTransaction(tx.ID, string(tx.Kind), tx.Amount, tx.Category.String()).
			WithOperation(applog.OpCreate).
			ToSlice()...)
	return tx, nil
}

// Edit applies patch to the transaction and stamps UpdatedAt.
func (s *LedgerService) Edit(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	if patch.IsEmpty() {
		return core.Transaction{}, ErrEmptyPatch
	}

	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("edit transaction: %w", err)
	}

	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Description != nil {
		tx.Description = strings.TrimSpace(*patch.Description)
	}
	tx.UpdatedAt = core.Millis(s.clock())
	if tx.UpdatedAt < tx.CreatedAt {
		tx.UpdatedAt = tx.CreatedAt
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.Update(ctx, tx); err != nil {
		s.logFailure(ctx, "Failed to update transaction", err, applog.OpUpdate)
		return core.Transaction{}, fmt.Errorf("edit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction updated",
		applog.NewFields().
			WithTransaction(tx.ID, string(tx.Kind), tx.Amount, tx.Category.String()).
			WithOperation(applog.OpUpdate).
			ToSlice()...)
	return tx, nil
}

// Remove hard-deletes a transaction.
func (s *LedgerService) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logFailure(ctx, "Failed to delete transaction", err, applog.OpDelete)
		return fmt.Errorf("remove transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldTransactionID, id,
		applog.FieldOperation, applog.OpDelete)
	return nil
}

func (s *LedgerService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

// Window resolves period against the service clock.
func (s *LedgerService) Window(period core.Period) core.Window {
	return core.ResolvePeriodAt(period, s.clock, s.dates.Location())
}

// List returns the transactions created inside the period, newest first.
// The window end is pushed one millisecond past now so that a record
// created at this very instant is included.
func (s *LedgerService) List(ctx context.Context, period core.Period) ([]core.Transaction, core.Window, error) {
	w := s.Window(period)
	txs, err := s.store.ListBetween(ctx, queryWindow(w))
	if err != nil {
		return nil, w, fmt.Errorf("list %s: %w", period, err)
	}

	s.logger.DebugContext(ctx, "Listed transactions",
		applog.NewFields().
			WithWindow(period.String(), w.Start, w.End).
			WithCount(len(txs)).
			WithOperation(applog.OpList).
			ToSlice()...)
	return txs, w, nil
}

// ListCategory returns every transaction filed under category.
func (s *LedgerService) ListCategory(ctx context.Context, category core.Category) ([]core.Transaction, error) {
	txs, err := s.store.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list category %s: %w", category, err)
	}
	return txs, nil
}

// Currency returns the display currency preference.
func (s *LedgerService) Currency() *settings.Currency {
	return s.currency
}

// Dates returns the date formatter used for display.
func (s *LedgerService) Dates() core.DateFormatter {
	return s.dates
}

func (s *LedgerService) logFailure(ctx context.Context, msg string, err error, op string) {
	errType := applog.ErrorTypeDatabase
	switch {
	case errors.Is(err, storage.ErrNotFound):
		errType = applog.ErrorTypeNotFound
	case errors.Is(err, storage.ErrDuplicateID):
		errType = applog.ErrorTypeConflict
	}
	s.logger.ErrorContext(ctx, msg,
		applog.NewFields().
			WithError(err).
			WithErrorType(errType).
			WithOperation(op).
			ToSlice()...)
}

// queryWindow turns the closed display window into the half-open range
// the stores expect.
func queryWindow(w core.Window) core.Window {
	return core.Window{Start: w.Start, End: w.End + 1}
}

func sum(txs []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(decimal.NewFromFloat(tx.Amount))
	}
	return total
}

// CategoryTotal is one slice of the expense breakdown chart.
type CategoryTotal struct {
	Category core.Category
	Amount   float64
	Share    float64 // fraction of total expense, 0..1
	Count    int
}

// Summary aggregates a period for the dashboard.
type Summary struct {
	Period     core.Period
	Window     core.Window
	Currency   string
	Income     float64
	Expense    float64
	Balance    float64
	Count      int
	ByCategory []CategoryTotal
}

// Summarize totals income and expense for the period. Both kinds are read
// concurrently through the kind index.
func (s *LedgerService) Summarize(ctx context.Context, period core.Period) (Summary, error) {
	w := s.Window(period)
	q := queryWindow(w)

	var income, expense []core.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.store.ListByKind(gctx, core.Income, q)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = s.store.ListByKind(gctx, core.Expense, q)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logFailure(ctx, "Failed to summarize period", err, applog.OpSummary)
		return Summary{}, fmt.Errorf("summarize %s: %w", period, err)
	}

	in, out := sum(income), sum(expense)
	summary := Summary{
		Period:     period,
		Window:     w,
		Currency:   s.currency.Code(),
		Income:     in.InexactFloat64(),
		Expense:    out.InexactFloat64(),
		Balance:    in.Sub(out).InexactFloat64(),
		Count:      len(income) + len(expense),
		ByCategory: breakdown(expense, out),
	}

	s.logger.DebugContext(ctx, "Summarized period",
		applog.NewFields().
			WithWindow(period.String(), w.Start, w.End).
			WithCount(summary.Count).
			WithCurrency(summary.Currency).
			WithOperation(applog.OpSummary).
			ToSlice()...)
	return summary, nil
}

// breakdown totals expense per category. Custom labels differing only in
// case share a slice, reported under the newest spelling.
func breakdown(expense []core.Transaction, total decimal.Decimal) []CategoryTotal {
	type acc struct {
		category core.Category
		amount   decimal.Decimal
		count    int
	}
	byKey := make(map[string]*acc)
	for _, tx := range expense {
		a, ok := byKey[tx.Category.Key()]
		if !ok {
			a = &acc{category: tx.Category, amount: decimal.Zero}
			byKey[tx.Category.Key()] = a
		}
		a.amount = a.amount.Add(decimal.NewFromFloat(tx.Amount))
		a.count++
	}

	out := make([]CategoryTotal, 0, len(byKey))
	for _, a := range byKey {
		ct := CategoryTotal{Category: a.category, Amount: a.amount.InexactFloat64(), Count: a.count}
		if total.IsPositive() {
			ct.Share = a.amount.Div(total).InexactFloat64()
		}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category.String() < out[j].Category.String()
	})
	return out
}
