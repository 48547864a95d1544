// Package filter evaluates page filter controls against in-memory records.
//
// A Set describes the controls of one page (dropdowns, text searches and
// numeric ranges). A State holds what the user has entered. Compiling a
// State against its Set yields a predicate that keeps a record only when
// every active control accepts it.
package filter

import (
	"sort"
	"strconv"
	"strings"
)

// All is the pass-through dropdown selection.
const All = "All"

// Kind identifies the control type of a field.
type Kind int

const (
	KindChoice Kind = iota // dropdown, exact match
	KindSearch             // free text, case-insensitive substring
	KindRange              // numeric min/max
)

func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindSearch:
		return "search"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind for JSON descriptors.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field is one filter control bound to a record accessor.
type Field[T any] struct {
	Name        string
	Label       string
	Kind        Kind
	Placeholder string

	text   func(T) string
	number func(T) (float64, bool)
}

// Choice builds a dropdown field matched by equality.
func Choice[T any](name, label string, get func(T) string) Field[T] {
	return Field[T]{Name: name, Label: label, Kind: KindChoice, Placeholder: "Select " + label, text: get}
}

// Search builds a case-insensitive substring field.
func Search[T any](name, label, placeholder string, get func(T) string) Field[T] {
	return Field[T]{Name: name, Label: label, Kind: KindSearch, Placeholder: placeholder, text: get}
}

// Range builds a numeric min/max field.
func Range[T any](name, label string, get func(T) (float64, bool)) Field[T] {
	return Field[T]{Name: name, Label: label, Kind: KindRange, number: get}
}

// Decorated adapts a display-formatted string accessor for Range fields.
func Decorated[T any](get func(T) string) func(T) (float64, bool) {
	return func(r T) (float64, bool) { return ParseNumber(get(r)) }
}

// Number adapts a plain numeric accessor for Range fields.
func Number[T any](get func(T) float64) func(T) (float64, bool) {
	return func(r T) (float64, bool) { return get(r), true }
}

// Descriptor is the record-type-free description of a field.
type Descriptor struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Kind        Kind   `json:"kind"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Descriptor returns the field's description.
func (f Field[T]) Descriptor() Descriptor {
	return Descriptor{Name: f.Name, Label: f.Label, Kind: f.Kind, Placeholder: f.Placeholder}
}

// Value is the user input for one field. Only the members matching the
// field's kind are read.
type Value struct {
	Selection string `json:"selection,omitempty"`
	Term      string `json:"term,omitempty"`
	Min       string `json:"min,omitempty"`
	Max       string `json:"max,omitempty"`
}

// State maps field names to their current values. A missing field is at
// its default.
type State map[string]Value

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// With returns a copy with one field replaced.
func (s State) With(name string, v Value) State {
	out := s.Clone()
	out[name] = v
	return out
}

// Key is a canonical encoding of the state, used for memoization.
func (s State) Key() string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		v := s[name]
		b.WriteString(strconv.Quote(name))
		b.WriteByte('=')
		for _, part := range []string{v.Selection, v.Term, v.Min, v.Max} {
			b.WriteString(strconv.Quote(part))
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Predicate reports whether a record belongs in the filtered view.
type Predicate[T any] func(T) bool

// Set is the ordered group of fields shown on one page.
type Set[T any] struct {
	fields []Field[T]
}

// NewSet groups fields in display order.
func NewSet[T any](fields ...Field[T]) *Set[T] {
	return &Set[T]{fields: append([]Field[T](nil), fields...)}
}

// Fields returns the fields in display order.
func (s *Set[T]) Fields() []Field[T] {
	return append([]Field[T](nil), s.fields...)
}

// Descriptors describes every field in display order.
func (s *Set[T]) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Descriptor()
	}
	return out
}

// Field looks a field up by name.
func (s *Set[T]) Field(name string) (Field[T], bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Defaults returns the reset state: every dropdown on All, every text empty.
func (s *Set[T]) Defaults() State {
	st := make(State, len(s.fields))
	for _, f := range s.fields {
		st[f.Name] = defaultValue(f.Kind)
	}
	return st
}

// Normalize fills missing fields with defaults, drops names the set does
// not know, and clears members that do not apply to a field's kind.
func (s *Set[T]) Normalize(st State) State {
	out := make(State, len(s.fields))
	for _, f := range s.fields {
		v, ok := st[f.Name]
		if !ok {
			out[f.Name] = defaultValue(f.Kind)
			continue
		}
		switch f.Kind {
		case KindChoice:
			if v.Selection == "" {
				v.Selection = All
			}
			out[f.Name] = Value{Selection: v.Selection}
		case KindSearch:
			out[f.Name] = Value{Term: v.Term}
		case KindRange:
			out[f.Name] = Value{Min: v.Min, Max: v.Max}
		}
	}
	return out
}

func defaultValue(k Kind) Value {
	if k == KindChoice {
		return Value{Selection: All}
	}
	return Value{}
}

// Compile turns a state into a predicate. Range bounds are validated here;
// a bound that is not a number yields a *BoundError.
func (s *Set[T]) Compile(st State) (Predicate[T], error) {
	var checks []Predicate[T]

	for _, f := range s.fields {
		v := st[f.Name]
		switch f.Kind {
		case KindChoice:
			if v.Selection == "" || v.Selection == All {
				continue
			}
			get, want := f.text, v.Selection
			checks = append(checks, func(r T) bool { return get(r) == want })

		case KindSearch:
			if v.Term == "" {
				continue
			}
			get, term := f.text, strings.ToLower(v.Term)
			checks = append(checks, func(r T) bool {
				return strings.Contains(strings.ToLower(get(r)), term)
			})

		case KindRange:
			lo, hasMin, err := parseBound(f.Name, "min", v.Min)
			if err != nil {
				return nil, err
			}
			hi, hasMax, err := parseBound(f.Name, "max", v.Max)
			if err != nil {
				return nil, err
			}
			if !hasMin && !hasMax {
				continue
			}
			get := f.number
			checks = append(checks, func(r T) bool {
				n, ok := get(r)
				if !ok {
					// Unparseable record values cannot satisfy a bound.
					return false
				}
				if hasMin && n < lo {
					return false
				}
				if hasMax && n > hi {
					return false
				}
				return true
			})
		}
	}

	return func(r T) bool {
		for _, check := range checks {
			if !check(r) {
				return false
			}
		}
		return true
	}, nil
}

// Options lists dropdown entries for a choice field: All followed by the
// distinct values in first-seen order. Other kinds have no options.
func (s *Set[T]) Options(records []T, name string) []string {
	f, ok := s.Field(name)
	if !ok || f.Kind != KindChoice {
		return nil
	}
	out := []string{All}
	seen := map[string]bool{All: true}
	for _, r := range records {
		v := f.text(r)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Apply returns the records accepted by pred, preserving order.
func Apply[T any](records []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
