package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCReclaimsUnreachablePairs(t *testing.T) {
	ctx := newTestContext(t)

	before := ctx.heap.len()
	mustEval(t, ctx, "(cons 1 2)")
	afterAlloc := ctx.heap.len()
	assert.Greater(t, afterAlloc, before)

	reclaimed := ctx.GC(true)
	assert.Greater(t, reclaimed, uint64(0))
	assert.Equal(t, before, ctx.heap.len())
}

func TestGCKeepsValuesReachableFromGlobalEnv(t *testing.T) {
	ctx := newTestContext(t)

	mustEval(t, ctx, "(define kept (cons 'a 'b))")
	// The first collection drops the reader's garbage; only values
	// reachable from the global environment are left for the second.
	ctx.GC(true)
	liveBefore := ctx.heap.len()

	ctx.GC(true)

	assert.Equal(t, liveBefore, ctx.heap.len())
	result := mustEval(t, ctx, "(car kept)")
	assert.Equal(t, "a", result.(*Symbol).S)
}

func TestGCHandlesCyclicPairsWithoutInfiniteRecursion(t *testing.T) {
	ctx := newTestContext(t)

	cell := ctx.Cons(nil, nil)
	ctx.SetCar(cell, cell)

	assert.NotPanics(t, func() { ctx.mark(cell) })
}

func TestFreeDataRecRemovesSubgraphImmediately(t *testing.T) {
	ctx := newTestContext(t)

	v := ctx.Cons(ctx.NewInteger(1), ctx.NewInteger(2))
	assert.True(t, ctx.heap.contains(v))

	ctx.FreeDataRec(v)
	assert.False(t, ctx.heap.contains(v))
}

func TestFreeDataRecDecrementsBytesAllocated(t *testing.T) {
	ctx := newTestContext(t)

	before := ctx.bytesAllocated.Load()
	v := ctx.Cons(ctx.NewInteger(1), ctx.NewInteger(2))
	afterAlloc := ctx.bytesAllocated.Load()
	assert.Greater(t, afterAlloc, before)

	ctx.FreeDataRec(v)
	assert.Equal(t, before, ctx.bytesAllocated.Load())
}
