package ext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tlcodec/tlcodec/errs"
)

func TestNew_RejectsReservedTokens(t *testing.T) {
	for _, tok := range []int{0, 1, 34, 255, 1000} {
		_, err := New(tok, "bad", nil, nil)
		require.ErrorIs(t, err, errs.ErrInvalidExtensionToken, "token %d should be rejected", tok)
	}
}

func TestNew_AcceptsValidRange(t *testing.T) {
	_, err := New(35, "low", nil, nil)
	require.NoError(t, err)

	_, err = New(254, "high", nil, nil)
	require.NoError(t, err)

	_, err = New(-1, "fallback", nil, nil)
	require.NoError(t, err)
}

func TestExtension_IsFallback(t *testing.T) {
	e, err := New(-1, "fb", nil, nil)
	require.NoError(t, err)
	require.True(t, e.IsFallback())

	e2, err := New(40, "normal", nil, nil)
	require.NoError(t, err)
	require.False(t, e2.IsFallback())
}

func TestRegistry_EncodeOrder_FallbacksLast(t *testing.T) {
	a, _ := New(40, "a", nil, nil)
	fb, _ := New(-1, "fb", nil, nil)
	b, _ := New(41, "b", nil, nil)

	r := NewRegistry(a, fb, b)

	order := r.EncodeOrder()
	require.Len(t, order, 3)
	require.Equal(t, "a", order[0].Name)
	require.Equal(t, "b", order[1].Name)
	require.Equal(t, "fb", order[2].Name)
}

func TestRegistry_ByToken(t *testing.T) {
	a, _ := New(40, "a", nil, nil)
	r := NewRegistry(a)

	got, ok := r.ByToken(40)
	require.True(t, ok)
	require.Equal(t, "a", got.Name)

	_, ok = r.ByToken(41)
	require.False(t, ok)
}

func TestRegistry_FallbackNotInByToken(t *testing.T) {
	fb, _ := New(-1, "fb", nil, nil)
	r := NewRegistry(fb)

	_, ok := r.ByToken(-1)
	require.False(t, ok, "fallback extensions have no token byte on the wire")
}
