package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBound reports a range bound that is not a number.
var ErrInvalidBound = errors.New("invalid range bound")

// BoundError describes which bound of which field failed to parse.
type BoundError struct {
	Field string
	Bound string // "min" or "max"
	Input string
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s %s: %q is not a number", e.Field, e.Bound, e.Input)
}

func (e *BoundError) Unwrap() error { return ErrInvalidBound }

// ParseNumber extracts a number from a decorated string such as "$2.4k" or
// "1,250 USD". Every character other than digits and '.' is dropped, then
// the longest leading decimal is parsed, so "1.2.3" reads as 1.2. It
// reports false when no digits remain.
func ParseNumber(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	end := 0
	digits := 0
	dot := false
	for end < len(cleaned) {
		c := cleaned[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else {
			digits++
		}
		end++
	}
	if digits == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(cleaned[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseBound parses user-entered bound text. Blank text means no bound.
func parseBound(field, which, input string) (float64, bool, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, &BoundError{Field: field, Bound: which, Input: input}
	}
	return v, true, nil
}
