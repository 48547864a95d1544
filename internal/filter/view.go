package filter

// View memoizes the filtered slice of a base dataset for the most recent
// state. Recompute happens only when the normalized state changes or the
// base is replaced.
type View[T any] struct {
	set  *Set[T]
	base []T

	state  State
	key    string
	result []T
	valid  bool
	gen    uint64
}

// NewView creates a view over base, starting at the default state.
func NewView[T any](set *Set[T], base []T) *View[T] {
	v := &View[T]{set: set, base: base}
	v.Reset()
	return v
}

// Update applies st and returns the filtered records. On a malformed bound
// the previous result and state are kept and the error is returned.
func (v *View[T]) Update(st State) ([]T, error) {
	norm := v.set.Normalize(st)
	key := norm.Key()
	if v.valid && key == v.key {
		return v.result, nil
	}
	pred, err := v.set.Compile(norm)
	if err != nil {
		return v.result, err
	}
	v.state = norm
	v.key = key
	v.result = Apply(v.base, pred)
	v.valid = true
	v.gen++
	return v.result, nil
}

// Reset returns every field to its default and recomputes.
func (v *View[T]) Reset() []T {
	out, _ := v.Update(v.set.Defaults())
	return out
}

// SetBase swaps the dataset and re-applies the current state.
func (v *View[T]) SetBase(base []T) []T {
	v.base = base
	v.valid = false
	st := v.state
	if st == nil {
		st = v.set.Defaults()
	}
	out, err := v.Update(st)
	if err != nil {
		// The stored state already compiled once; only a reset can recover.
		return v.Reset()
	}
	return out
}

// Base returns the unfiltered dataset.
func (v *View[T]) Base() []T { return v.base }

// State returns a copy of the last successfully applied state.
func (v *View[T]) State() State { return v.state.Clone() }

// Result returns the current filtered records.
func (v *View[T]) Result() []T { return v.result }

// Generation increments every time the result is recomputed.
func (v *View[T]) Generation() uint64 { return v.gen }
