package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAtoms(t *testing.T) {
	ctx := newTestContext(t)

	tests := []struct {
		name string
		src  string
	}{
		{"integer", "42"},
		{"negative integer", "-7"},
		{"decimal", "3.14"},
		{"symbol", "foo-bar?"},
		{"string", `"hello world"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, err := ctx.Read(tt.src)
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

func TestReadIntegerVsDecimalPrecedence(t *testing.T) {
	ctx := newTestContext(t)

	v, _, err := ctx.Read("10")
	require.NoError(t, err)
	assert.IsType(t, &Integer{}, v)

	v, _, err = ctx.Read("10.5")
	require.NoError(t, err)
	assert.IsType(t, &Decimal{}, v)
}

func TestReadList(t *testing.T) {
	ctx := newTestContext(t)
	v, consumed, err := ctx.Read("(1 2 3)")
	require.NoError(t, err)
	assert.Equal(t, 7, consumed)
	assert.Equal(t, 3, ListLength(v))
}

func TestReadQuoteShorthand(t *testing.T) {
	ctx := newTestContext(t)
	v, _, err := ctx.Read("'foo")
	require.NoError(t, err)
	assert.True(t, isTaggedList(v, "quote"))
	assert.Equal(t, "foo", Cadr(v).(*Symbol).S)
}

func TestReadSymbolWithEmbeddedApostrophe(t *testing.T) {
	ctx := newTestContext(t)
	v, consumed, err := ctx.Read("don't-care")
	require.NoError(t, err)
	assert.Equal(t, len("don't-care"), consumed)
	sym, ok := v.(*Symbol)
	require.True(t, ok)
	assert.Equal(t, "don't-care", sym.S)
}

func TestReadReportsUnterminatedList(t *testing.T) {
	ctx := newTestContext(t)
	_, _, err := ctx.Read("(1 2")
	assert.Error(t, err)
}

func TestReadSkipsComments(t *testing.T) {
	ctx := newTestContext(t)
	v, _, err := ctx.Read("; a comment\n42")
	require.NoError(t, err)
	assert.Equal(t, 42, v.(*Integer).N)
}

func TestReadAtEndOfInputReportsNoMoreForms(t *testing.T) {
	ctx := newTestContext(t)
	_, _, err := ctx.Read("   ")
	assert.Equal(t, errNoMoreForms, err)
}
