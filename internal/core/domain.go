package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// MaxDescriptionLength bounds the free-text description of a transaction.
const MaxDescriptionLength = 200

type (
	// Kind tells income and expense records apart.
	Kind string

	// Transaction is a single income or expense record. Timestamps are
	// milliseconds since the Unix epoch.
	Transaction struct {
		ID          string
		Kind        Kind
		Amount      float64
		Category    Category
		Description string
		CreatedAt   int64
		UpdatedAt   int64 // zero when never updated
	}
)

var (
	ErrEmptyID            = errors.New("empty transaction id")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// ValidateAmount rejects negative and non-finite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Category.IsZero() {
		return ErrEmptyCategory
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if t.CreatedAt < 0 || t.UpdatedAt < 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// Created returns CreatedAt as a time.Time in UTC.
func (t Transaction) Created() time.Time {
	return FromMillis(t.CreatedAt)
}

// Millis converts t to milliseconds since the Unix epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts milliseconds since the Unix epoch to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
