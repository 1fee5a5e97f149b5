package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalOneWithoutTimeoutReturnsResult(t *testing.T) {
	ctx := newTestContext(t)
	exp, _, err := ctx.Read("(+ 1 2)")
	require.NoError(t, err)
	result := ctx.EvalOne(exp)
	assert.Equal(t, 3, result.(*Integer).N)
}

func TestEvalOneKillsLongRunningEvaluation(t *testing.T) {
	ctx, err := NewContext(&Config{SoftLimit: 65535, HardLimit: 131071, TimeoutSeconds: 0})
	require.NoError(t, err)
	require.NoError(t, ctx.SetupEnvironment())
	defer ctx.Close()
	ctx.timeoutSeconds = 1

	// An infinite loop with no base case: the supervisor must sever it
	// rather than block forever.
	require.Error(t, ctx.AddPrimProc("noop", func(args Value, c *Context) Value { return nil }))

	_, _, err = ctx.Read("(define (spin) (spin))")
	require.NoError(t, err)
	result, runErr := ctx.EvalProgramSupervised("(define (spin) (spin))")
	require.NoError(t, runErr)
	_ = result

	exp, _, err := ctx.Read("(spin)")
	require.NoError(t, err)
	result = ctx.EvalOne(exp)
	assert.True(t, isError(result))
	assert.False(t, ctx.threadRunning.Load())
}

func TestEvalProgramSupervisedEvaluatesEachFormInOrder(t *testing.T) {
	ctx := newTestContext(t)
	result, err := ctx.EvalProgramSupervised("(define x 1) (define y 2) (+ x y)")
	require.NoError(t, err)
	assert.Equal(t, 3, result.(*Integer).N)
}
