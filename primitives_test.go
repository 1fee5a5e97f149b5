package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmeticPrimitivesPromoteToDecimal(t *testing.T) {
	ctx := newTestContext(t)

	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"int plus int stays int", "(+ 1 2)", ctx.NewInteger(3)},
		{"int plus decimal promotes", "(+ 1 2.5)", ctx.NewDecimal(3.5)},
		{"division yielding integer demotes", "(/ 10 2)", ctx.NewInteger(5)},
		{"division yielding fraction stays decimal", "(/ 1 4)", ctx.NewDecimal(0.25)},
		{"unary minus negates", "(- 5)", ctx.NewInteger(-5)},
		{"subtraction", "(- 10 3 2)", ctx.NewInteger(5)},
		{"multiplication", "(* 2 3 4)", ctx.NewInteger(24)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustEval(t, ctx, tt.src)
			assert.True(t, IsEqual(tt.want, result), "got %s", ctx.Print(result))
		})
	}
}

func TestDivisionByZeroIsError(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(/ 1 0)")
	assert.True(t, isError(result))
}

func TestRoundUsesBankersRounding(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, 2, mustEval(t, ctx, "(round 2.5)").(*Integer).N)
	assert.Equal(t, 4, mustEval(t, ctx, "(round 3.5)").(*Integer).N)
	assert.Equal(t, 3, mustEval(t, ctx, "(round 2.6)").(*Integer).N)
}

func TestComparisonPrimitives(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, "#t", mustEval(t, ctx, "(< 1 2)").(*Symbol).S)
	assert.Equal(t, "#f", mustEval(t, ctx, "(< 2 1)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(> 2 1.5)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(= 2 2.0)").(*Symbol).S)
}

func TestListPrimitives(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, 1, mustEval(t, ctx, "(car (cons 1 2))").(*Integer).N)
	assert.Equal(t, 2, mustEval(t, ctx, "(cdr (cons 1 2))").(*Integer).N)
	assert.Equal(t, 3, ListLength(mustEval(t, ctx, "(list 1 2 3)")))
}

func TestSetCarSetCdrMutateInPlace(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(define p (cons 1 2)) (set-car! p 9) (set-cdr! p 8) p")
	assert.Equal(t, 9, Car(result).(*Integer).N)
	assert.Equal(t, 8, Cdr(result).(*Integer).N)
}

func TestTypePredicates(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, "#t", mustEval(t, ctx, "(number? 1)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(number? 1.5)").(*Symbol).S)
	assert.Equal(t, "#f", mustEval(t, ctx, "(number? 'a)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(pair? (cons 1 2))").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(symbol? 'a)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(string? \"s\")").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(procedure? car)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(procedure? (lambda (x) x))").(*Symbol).S)
}

func TestGcdLcm(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, 6, mustEval(t, ctx, "(gcd 12 18)").(*Integer).N)
	assert.Equal(t, 36, mustEval(t, ctx, "(lcm 12 18)").(*Integer).N)
}

func TestBootstrapDerivedProcedures(t *testing.T) {
	ctx := newTestContext(t)

	tests := []struct {
		name string
		src  string
		want int
	}{
		{"cadr", "(cadr '(1 2 3))", 2},
		{"length", "(length '(1 2 3 4))", 4},
		{"modulo", "(modulo 7 3)", 1},
		{"quotient", "(quotient 7 2)", 3},
		{"remainder", "(remainder 7 2)", 1},
		{"square", "(square 6)", 36},
		{"fact", "(fact 5)", 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEval(t, ctx, tt.src).(*Integer).N)
		})
	}

	assert.Equal(t, "#t", mustEval(t, ctx, "(null? nil)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(zero? 0)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(even? 4)").(*Symbol).S)
	assert.Equal(t, "#t", mustEval(t, ctx, "(odd? 3)").(*Symbol).S)
	assert.Equal(t, 3, ListLength(mustEval(t, ctx, "(map (lambda (x) (* x x)) '(1 2 3))")))
	assert.Equal(t, 4, ListLength(mustEval(t, ctx, "(append '(1 2) '(3 4))")))
}

func TestSqrtConverges(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(sqrt 9)")
	assert.InDelta(t, 3.0, result.(*Decimal).F, 0.001)
}
