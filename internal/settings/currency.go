// Package settings holds per-device user preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pengeluaran/internal/core"
	applog "pengeluaran/internal/log"
	"pengeluaran/internal/storage"
)

// CurrencyKey is the preference key holding the display currency.
const CurrencyKey = "currency"

var ErrEmptyCurrency = errors.New("empty currency code")

// Currency is the display currency preference. It is read once from the
// preference store and written through on every Set; the last write wins.
type Currency struct {
	mu    sync.RWMutex
	code  string
	store storage.PreferenceStore
}

// LoadCurrency reads the stored preference. When nothing is stored, or the
// store cannot be read, the preference starts at fallback (core.DefaultCurrency
// when fallback is empty).
func LoadCurrency(ctx context.Context, store storage.PreferenceStore, fallback string, logger *applog.Logger) *Currency {
	fallback = core.NormalizeCurrencyCode(fallback)
	if fallback == "" {
		fallback = core.DefaultCurrency
	}
	c := &Currency{code: fallback, store: store}
	if store == nil {
		return c
	}

	v, ok, err := store.GetPreference(ctx, CurrencyKey)
	switch {
	case err != nil:
		if logger != nil {
			logger.WarnContext(ctx, "Failed to read currency preference, using default",
				applog.NewFields().
					WithError(err).
					WithOperation(applog.OpRead).
					WithCurrency(fallback).
					ToSlice()...)
		}
	case ok && core.NormalizeCurrencyCode(v) != "":
		c.code = core.NormalizeCurrencyCode(v)
	}
	return c
}

// Code returns the current currency code.
func (c *Currency) Code() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.code
}

// Set persists code and makes it current. The in-memory value only changes
// once the store accepted the write.
func (c *Currency) Set(ctx context.Context, code string) error {
	code = core.NormalizeCurrencyCode(code)
	if code == "" {
		return ErrEmptyCurrency
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		if err := c.store.SetPreference(ctx, CurrencyKey, code); err != nil {
			return fmt.Errorf("save currency preference: %w", err)
		}
	}
	c.code = code
	return nil
}

// Format renders amount in the current currency.
func (c *Currency) Format(amount float64) string {
	return core.FormatCurrency(amount, c.Code())
}
