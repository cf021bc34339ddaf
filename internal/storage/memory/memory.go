package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pengeluaran/internal/core"
	"pengeluaran/internal/storage"
)

// Store keeps transactions and preferences in process memory.
type Store struct {
	mu    sync.Mutex
	items map[string]core.Transaction
	prefs map[string]string
}

var (
	_ storage.TransactionStore = (*Store)(nil)
	_ storage.PreferenceStore  = (*Store)(nil)
)

func New(seed ...core.Transaction) *Store {
	s := &Store{
		items: make(map[string]core.Transaction, len(seed)),
		prefs: make(map[string]string),
	}
	for _, tx := range seed {
		s.items[tx.ID] = tx
	}
	return s
}

func (s *Store) Insert(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[tx.ID]; ok {
		return fmt.Errorf("insert transaction %s: %w", tx.ID, storage.ErrDuplicateID)
	}
	s.items[tx.ID] = tx
	return nil
}

func (s *Store) Update(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[tx.ID]; !ok {
		return fmt.Errorf("update transaction %s: %w", tx.ID, storage.ErrNotFound)
	}
	s.items[tx.ID] = tx
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("delete transaction %s: %w", id, storage.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, storage.ErrNotFound)
	}
	return tx, nil
}

func (s *Store) ListBetween(_ context.Context, w core.Window) ([]core.Transaction, error) {
	return s.filter(func(tx core.Transaction) bool {
		return w.Contains(tx.CreatedAt)
	}), nil
}

func (s *Store) ListByKind(_ context.Context, kind core.Kind, w core.Window) ([]core.Transaction, error) {
	return s.filter(func(tx core.Transaction) bool {
		return tx.Kind == kind && w.Contains(tx.CreatedAt)
	}), nil
}

func (s *Store) ListByCategory(_ context.Context, category core.Category) ([]core.Transaction, error) {
	return s.filter(func(tx core.Transaction) bool {
		return tx.Category.SameAs(category)
	}), nil
}

func (s *Store) GetPreference(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.prefs[key]
	return v, ok, nil
}

func (s *Store) SetPreference(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[key] = value
	return nil
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) filter(keep func(core.Transaction) bool) []core.Transaction {
	s.mu.Lock()
	var out []core.Transaction
	for _, tx := range s.items {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	s.mu.Unlock()

	// Same order as the SQLite queries: newest first, ties by id.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}
