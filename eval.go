package lisp

import "runtime"

// Eval is the metacircular evaluator's entry point (spec.md §4.5),
// grounded on original_source/src/eval.c's eval. Every recursive call
// in this package goes through Eval rather than calling itself
// directly, so the cancellation check here is the single choke point
// a supervisor-requested abort passes through: once evalPlzDie is set,
// the worker goroutine unwinds via runtime.Goexit() instead of
// returning control to its caller with a partially-evaluated result.
func (c *Context) Eval(exp, env Value) Value {
	if c.evalPlzDie.Load() {
		runtime.Goexit()
	}

	switch v := exp.(type) {
	case nil:
		return nil
	case *Integer, *Decimal, *String:
		return exp
	case *ErrorValue:
		return exp
	case *Symbol:
		if v.S == "#t" || v.S == "#f" {
			return exp
		}
		return c.LookupVariable(v.S, env)
	}

	p, ok := exp.(*Pair)
	if !ok {
		return c.NewError("cannot evaluate expression")
	}

	switch {
	case isTaggedList(p, "quote"):
		return Cadr(p)
	case isTaggedList(p, "set!"):
		return c.evalAssignment(p, env)
	case isTaggedList(p, "define"):
		return c.evalDefinition(p, env)
	case isTaggedList(p, "if"):
		return c.evalIf(p, env)
	case isTaggedList(p, "lambda"):
		return c.MakeProcedure(Cadr(p), Cddr(p), env)
	case isTaggedList(p, "begin"):
		return c.evalSequence(Cdr(p), env)
	case isTaggedList(p, "cond"):
		return c.Eval(c.condToIf(Cdr(p)), env)
	case isTaggedList(p, "let"):
		return c.Eval(c.letToApplication(p), env)
	case isTaggedList(p, "let*"):
		return c.Eval(c.letStarToNestedLets(p), env)
	case isTaggedList(p, "letrec"):
		return c.Eval(c.letrecToLet(p), env)
	}

	proc := c.Eval(p.L, env)
	if isError(proc) {
		return proc
	}
	args := c.evalList(p.R, env)
	if isError(args) {
		return args
	}
	return c.Apply(proc, args)
}

// evalList evaluates each element of an argument list left to right,
// short-circuiting and returning the first Error encountered
// (original_source/src/eval.c's list_of_values).
func (c *Context) evalList(exps, env Value) Value {
	p, ok := exps.(*Pair)
	if !ok {
		return nil
	}
	first := c.Eval(p.L, env)
	if isError(first) {
		return first
	}
	rest := c.evalList(p.R, env)
	if isError(rest) {
		return rest
	}
	return c.Cons(first, rest)
}

// evalSequence evaluates each expression in a body in order, returning
// the value of the last one, short-circuiting on the first Error
// (original_source/src/eval.c's eval_sequence).
func (c *Context) evalSequence(exps, env Value) Value {
	p, ok := exps.(*Pair)
	if !ok {
		return nil
	}
	if p.R == nil {
		return c.Eval(p.L, env)
	}
	result := c.Eval(p.L, env)
	if isError(result) {
		return result
	}
	return c.evalSequence(p.R, env)
}
