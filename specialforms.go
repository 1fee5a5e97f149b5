package lisp

// This file holds the special forms whose handling is more than a
// one-line dispatch in eval.go: assignment, definition, the
// conditionals, and the let family's desugaring into lambda
// application, all grounded on original_source/src/eval.c.

func (c *Context) evalAssignment(exp, env Value) Value {
	name, ok := Cadr(exp).(*Symbol)
	if !ok {
		return c.NewError("set!: variable name must be a symbol")
	}
	value := c.Eval(Caddr(exp), env)
	if isError(value) {
		return value
	}
	return c.SetVariable(name.S, value, env)
}

// evalDefinition handles both (define name value) and the procedure
// shorthand (define (name . params) body...), matching
// original_source/src/eval.c's eval_definition / definition_variable /
// definition_value.
func (c *Context) evalDefinition(exp, env Value) Value {
	target := Cadr(exp)
	if sym, ok := target.(*Symbol); ok {
		value := c.Eval(Caddr(exp), env)
		if isError(value) {
			return value
		}
		c.DefineVariable(sym.S, value, env)
		return sym
	}

	p, ok := target.(*Pair)
	if !ok {
		return c.NewError("define: malformed target")
	}
	name, ok := p.L.(*Symbol)
	if !ok {
		return c.NewError("define: procedure name must be a symbol")
	}
	params := p.R
	body := Cddr(exp)
	proc := c.MakeProcedure(params, body, env)
	c.DefineVariable(name.S, proc, env)
	return name
}

// evalIf implements the single-arm-true semantics of the Open Question
// resolution recorded in DESIGN.md: only the symbol #t counts as true,
// matching original_source/src/eval.c's is_true (which compares the
// symbol's name with "#t", not C truthiness).
func (c *Context) evalIf(exp, env Value) Value {
	predicate := c.Eval(Cadr(exp), env)
	if isError(predicate) {
		return predicate
	}
	if isTrue(predicate) {
		return c.Eval(Caddr(exp), env)
	}
	alt := Cdddr(exp)
	if alt == nil {
		return nil
	}
	return c.Eval(Car(alt), env)
}

// condToIf rewrites a cond's clause list into nested ifs
// (original_source/src/eval.c's cond_to_if / expand_clauses). An
// else clause must be the final clause; an else followed by further
// clauses makes the whole cond expand to an Error value.
func (c *Context) condToIf(clauses Value) Value {
	if clauses == nil {
		return nil
	}
	clause, ok := clauses.(*Pair)
	if !ok {
		return nil
	}
	rest := clause.R

	predicate := Car(clause.L)
	if sym, ok := predicate.(*Symbol); ok && sym.S == "else" {
		if rest != nil {
			return c.NewError("cond: else clause must be last")
		}
		return c.Cons(c.NewSymbol("begin"), Cdr(clause.L))
	}

	alternative := c.condToIf(rest)
	if isError(alternative) {
		return alternative
	}
	consequent := c.Cons(c.NewSymbol("begin"), Cdr(clause.L))
	return c.Cons(c.NewSymbol("if"),
		c.Cons(predicate,
			c.Cons(consequent,
				c.Cons(alternative, nil))))
}

// letToApplication rewrites (let ((v1 e1) (v2 e2) ...) body...) into
// ((lambda (v1 v2 ...) body...) e1 e2 ...), matching
// original_source/src/eval.c's let_to_application. Named let is out of
// scope, matching spec.md's Non-goals.
func (c *Context) letToApplication(exp Value) Value {
	bindings := Cadr(exp)
	body := Cddr(exp)

	var params, args Value
	var names, vals []Value
	for b := bindings; b != nil; {
		bp, ok := b.(*Pair)
		if !ok {
			break
		}
		binding := bp.L
		names = append(names, Car(binding))
		vals = append(vals, Cadr(binding))
		b = bp.R
	}
	for i := len(names) - 1; i >= 0; i-- {
		params = c.Cons(names[i], params)
		args = c.Cons(vals[i], args)
	}

	lambda := c.Cons(c.NewSymbol("lambda"), c.Cons(params, body))
	return c.Cons(lambda, args)
}

// letStarToNestedLets rewrites let* into nested single-binding lets
// (original_source/src/eval.c's let_star_to_nested_lets).
func (c *Context) letStarToNestedLets(exp Value) Value {
	bindings := Cadr(exp)
	body := Cddr(exp)
	return c.nestLets(bindings, body)
}

func (c *Context) nestLets(bindings, body Value) Value {
	bp, ok := bindings.(*Pair)
	if !ok {
		return c.Cons(c.NewSymbol("begin"), body)
	}
	inner := c.nestLets(bp.R, body)
	oneBinding := c.Cons(bp.L, nil)
	return c.Cons(c.NewSymbol("let"), c.Cons(oneBinding, c.Cons(inner, nil)))
}

// letrecToLet rewrites letrec into a let that binds every variable to
// an unassigned placeholder and then set!s each one in turn, matching
// original_source/src/eval.c's letrec_to_let_transformation. The
// placeholder is the quoted symbol unassigned, and the set!s are the
// first expressions of the let body, ahead of the original body.
func (c *Context) letrecToLet(exp Value) Value {
	bindings := Cadr(exp)
	body := Cddr(exp)

	var outerBindings Value
	var assignments Value
	var names []Value
	var inits []Value
	for b := bindings; b != nil; {
		bp, ok := b.(*Pair)
		if !ok {
			break
		}
		names = append(names, Car(bp.L))
		inits = append(inits, Cadr(bp.L))
		b = bp.R
	}
	for i := len(names) - 1; i >= 0; i-- {
		placeholder := c.Cons(names[i], c.Cons(c.Cons(c.NewSymbol("quote"), c.Cons(c.NewSymbol("unassigned"), nil)), nil))
		outerBindings = c.Cons(placeholder, outerBindings)
		assign := c.Cons(c.NewSymbol("set!"), c.Cons(names[i], c.Cons(inits[i], nil)))
		assignments = c.Cons(assign, assignments)
	}

	newBody := c.Append(assignments, body)
	return c.Cons(c.NewSymbol("let"), c.Cons(outerBindings, newBody))
}
