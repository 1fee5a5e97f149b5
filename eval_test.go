package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalSelfEvaluatingForms(t *testing.T) {
	ctx := newTestContext(t)

	tests := []struct {
		name string
		src  string
		want interface{}
	}{
		{"integer", "42", 42},
		{"string", `"hi"`, "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustEval(t, ctx, tt.src)
			switch w := tt.want.(type) {
			case int:
				assert.Equal(t, w, result.(*Integer).N)
			case string:
				assert.Equal(t, w, result.(*String).S)
			}
		})
	}
}

func TestEvalQuoteReturnsUnevaluated(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "'(a b c)")
	assert.Equal(t, "a", Car(result).(*Symbol).S)
}

func TestEvalIfOnlyTrueSymbolTakesConsequent(t *testing.T) {
	ctx := newTestContext(t)

	assert.Equal(t, 1, mustEval(t, ctx, "(if '#t 1 2)").(*Integer).N)
	assert.Equal(t, 2, mustEval(t, ctx, "(if '#f 1 2)").(*Integer).N)
	// Anything other than the symbol #t is treated as false, including
	// values that would be truthy in many other Lisps.
	assert.Equal(t, 2, mustEval(t, ctx, "(if 0 1 2)").(*Integer).N)
	assert.Equal(t, 2, mustEval(t, ctx, "(if '() 1 2)").(*Integer).N)
}

func TestEvalIfWithoutAlternativeReturnsAbsent(t *testing.T) {
	ctx := newTestContext(t)
	assert.Nil(t, mustEval(t, ctx, "(if '#f 1)"))
}

func TestEvalLambdaAndApplication(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "((lambda (x y) (+ x y)) 3 4)")
	assert.Equal(t, 7, result.(*Integer).N)
}

func TestEvalBeginSequencesAndReturnsLast(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(begin 1 2 3)")
	assert.Equal(t, 3, result.(*Integer).N)
}

func TestEvalCondFallsThroughToElse(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(cond ('#f 1) ('#f 2) (else 3))")
	assert.Equal(t, 3, result.(*Integer).N)
}

func TestEvalLetBindsInNewFrame(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(let ((a 1) (b 2)) (+ a b))")
	assert.Equal(t, 3, result.(*Integer).N)
}

func TestEvalLetStarSeesEarlierBindings(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(let* ((a 1) (b (+ a 1))) b)")
	assert.Equal(t, 2, result.(*Integer).N)
}

func TestEvalLetrecSupportsMutualRecursion(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, `
		(letrec ((even? (lambda (n) (if (= n 0) '#t (odd? (- n 1)))))
		         (odd?  (lambda (n) (if (= n 0) '#f (even? (- n 1))))))
		  (even? 10))`)
	assert.Equal(t, "#t", result.(*Symbol).S)
}

func TestEvalErrorShortCircuitsApplication(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(+ 1 unbound-name)")
	assert.True(t, isError(result))
}

func TestEvalRecursiveFactorial(t *testing.T) {
	ctx := newTestContext(t)
	result := mustEval(t, ctx, "(fact 5)")
	assert.Equal(t, 120, result.(*Integer).N)
}
