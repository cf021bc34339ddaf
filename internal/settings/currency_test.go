package settings

import (
	"context"
	"errors"
	"testing"

	"pengeluaran/internal/storage/memory"
)

type failingStore struct{ err error }

func (f failingStore) GetPreference(context.Context, string) (string, bool, error) {
	return "", false, f.err
}

func (f failingStore) SetPreference(context.Context, string, string) error {
	return f.err
}

func TestLoadCurrencyDefaults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		stored   string
		fallback string
		want     string
	}{
		{"nothing stored uses default", "", "", "IDR"},
		{"nothing stored uses fallback", "", "usd", "USD"},
		{"stored value wins", "eur", "USD", "EUR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			if tt.stored != "" {
				store.SetPreference(ctx, CurrencyKey, tt.stored)
			}
			c := LoadCurrency(ctx, store, tt.fallback, nil)
			if got := c.Code(); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadCurrencyStoreError(t *testing.T) {
	c := LoadCurrency(context.Background(), failingStore{err: errors.New("disk gone")}, "USD", nil)
	if c.Code() != "USD" {
		t.Fatalf("Code() = %q, want fallback USD", c.Code())
	}
}

func TestCurrencySetPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	c := LoadCurrency(ctx, store, "", nil)

	if err := c.Set(ctx, " usd "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Code() != "USD" {
		t.Fatalf("Code() = %q, want USD", c.Code())
	}
	v, ok, _ := store.GetPreference(ctx, CurrencyKey)
	if !ok || v != "USD" {
		t.Fatalf("stored %q ok=%v, want USD", v, ok)
	}

	// A fresh load sees the persisted value.
	if got := LoadCurrency(ctx, store, "", nil).Code(); got != "USD" {
		t.Fatalf("reloaded Code() = %q, want USD", got)
	}

	if err := c.Set(ctx, "  "); !errors.Is(err, ErrEmptyCurrency) {
		t.Fatalf("Set empty error = %v, want ErrEmptyCurrency", err)
	}
	if got := c.Format(1000); got != "$1,000.00" {
		t.Fatalf("Format = %q", got)
	}
}

func TestCurrencySetStoreFailureKeepsValue(t *testing.T) {
	c := &Currency{code: "IDR", store: failingStore{err: errors.New("read only")}}
	if err := c.Set(context.Background(), "USD"); err == nil {
		t.Fatalf("expected error from failing store")
	}
	if c.Code() != "IDR" {
		t.Fatalf("Code() = %q, want IDR after failed Set", c.Code())
	}
}
