package pages

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tinytelemetry/admindash/internal/filter"
)

var (
	// ErrNoRecord is returned when an edit names a key the page does not hold.
	ErrNoRecord = errors.New("no such record")
	// ErrReadOnlyColumn is returned for edits to key columns and unknown fields.
	ErrReadOnlyColumn = errors.New("column is read-only")
	// ErrInvalidValue is returned when a column cannot store the edited text.
	ErrInvalidValue = errors.New("invalid value")
)

// Edit sets one field of the record with the given key in the working copy
// and re-applies the current filters. The store is never written.
func (b *Board[T]) Edit(key, field, value string) error {
	var set func(*T, string) error
	for _, c := range b.columns {
		if c.Field == field {
			set = c.Set
			break
		}
	}
	if set == nil {
		return fmt.Errorf("%s.%s: %w", b.id, field, ErrReadOnlyColumn)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.base {
		if b.key(b.base[i]) != key {
			continue
		}
		updated := b.base[i]
		if err := set(&updated, value); err != nil {
			return fmt.Errorf("%s.%s: %w", b.id, field, err)
		}
		base := append([]T(nil), b.base...)
		base[i] = updated
		b.base = base
		b.ensureView().SetBase(base)
		b.rows = nil
		return nil
	}
	return fmt.Errorf("%s %s: %w", b.id, key, ErrNoRecord)
}

// setText stores trimmed, non-empty text.
func setText[T any](field func(*T) *string) func(*T, string) error {
	return func(r *T, v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return fmt.Errorf("%w: empty", ErrInvalidValue)
		}
		*field(r) = v
		return nil
	}
}

// setDecorated stores display text such as "$2.4k" or "40" that range
// filters must still be able to read a number from.
func setDecorated[T any](field func(*T) *string) func(*T, string) error {
	text := setText(field)
	return func(r *T, v string) error {
		if _, ok := filter.ParseNumber(v); !ok {
			return fmt.Errorf("%w: %q has no number", ErrInvalidValue, v)
		}
		return text(r, v)
	}
}

// setAmount parses "$1,250.50" style input into a non-negative number.
func setAmount[T any](field func(*T) *float64) func(*T, string) error {
	return func(r *T, v string) error {
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: %q is not an amount", ErrInvalidValue, v)
		}
		*field(r) = n
		return nil
	}
}
