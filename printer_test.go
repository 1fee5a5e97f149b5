package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintAbsentValue(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, "()", ctx.Print(nil))
}

func TestPrintAtoms(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, "42", ctx.Print(ctx.NewInteger(42)))
	assert.Equal(t, `"hi"`, ctx.Print(ctx.NewString("hi")))
	assert.Equal(t, "foo", ctx.Print(ctx.NewSymbol("foo")))
}

func TestPrintProperList(t *testing.T) {
	ctx := newTestContext(t)
	list := ctx.Cons(ctx.NewInteger(1), ctx.Cons(ctx.NewInteger(2), nil))
	assert.Equal(t, "(1 2)", ctx.Print(list))
}

func TestPrintDottedPair(t *testing.T) {
	ctx := newTestContext(t)
	pair := ctx.Cons(ctx.NewInteger(1), ctx.NewInteger(2))
	assert.Equal(t, "(1 . 2)", ctx.Print(pair))
}

func TestPrintGlobalEnvironmentIsOpaque(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, "<env>", ctx.Print(ctx.globalEnv))
}

func TestPrintErrorValue(t *testing.T) {
	ctx := newTestContext(t)
	err := ctx.NewError("boom")
	assert.Equal(t, "ERROR: 'boom'", ctx.Print(err))
}

func TestPrintCompoundProcedureIsOpaque(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(lambda (x) x)")
	assert.Equal(t, "<proc>", ctx.Print(result))
}

func TestPrintPrimitiveIsOpaque(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "car")
	assert.Equal(t, "<proc>", ctx.Print(result))
}
