package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewStartsUnfiltered(t *testing.T) {
	v := NewView(accountSet(), []account{alice, bob, carol})
	assert.Len(t, v.Result(), 3)
	assert.Equal(t, uint64(1), v.Generation())
}

func TestViewMemoizes(t *testing.T) {
	v := NewView(accountSet(), []account{alice, bob, carol})

	st := State{"Status": {Selection: "Active"}}
	first, err := v.Update(st)
	require.NoError(t, err)
	gen := v.Generation()

	second, err := v.Update(st.Clone())
	require.NoError(t, err)
	assert.Equal(t, gen, v.Generation())
	assert.Equal(t, names(first), names(second))
}

func TestViewResetIsIdempotent(t *testing.T) {
	v := NewView(accountSet(), []account{alice, bob, carol})
	_, err := v.Update(State{"Location": {Selection: "UK"}})
	require.NoError(t, err)

	once := names(v.Reset())
	st := v.State()
	twice := names(v.Reset())
	assert.Equal(t, once, twice)
	assert.Equal(t, st, v.State())
	assert.Len(t, once, 3)
}

func TestViewKeepsLastResultOnBadBound(t *testing.T) {
	v := NewView(accountSet(), []account{alice, bob})
	good, err := v.Update(State{"Budget": {Min: "100"}})
	require.NoError(t, err)
	require.Equal(t, []string{"Bob Garrison"}, names(good))

	got, err := v.Update(State{"Budget": {Min: "1oo"}})
	assert.ErrorIs(t, err, ErrInvalidBound)
	assert.Equal(t, []string{"Bob Garrison"}, names(got))
	assert.Equal(t, "100", v.State()["Budget"].Min)
}

func TestViewSetBaseReapplies(t *testing.T) {
	v := NewView(accountSet(), []account{alice})
	_, err := v.Update(State{"Location": {Selection: "Canada"}})
	require.NoError(t, err)
	assert.Empty(t, v.Result())

	got := v.SetBase([]account{alice, bob, carol})
	assert.Equal(t, []string{"Bob Garrison", "Carol Jones"}, names(got))
}
