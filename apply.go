package lisp

// Apply dispatches a procedure value against an already-evaluated
// argument list (spec.md §4.5), grounded on
// original_source/src/eval.c's apply. Per spec.md §7.2, an Error
// anywhere in the already-evaluated arguments (or as the procedure
// itself) short-circuits before any primitive or closure body runs.
func (c *Context) Apply(proc, args Value) Value {
	if isError(proc) {
		return proc
	}
	if isError(args) {
		return args
	}
	for l := args; l != nil; l = Cdr(l) {
		if arg := Car(l); isError(arg) {
			return arg
		}
	}

	if isTaggedList(proc, "primitive") {
		prim, ok := Cdr(proc).(*Primitive)
		if !ok {
			return c.NewError("malformed primitive object")
		}
		return prim.Fn(args, c)
	}

	if isTaggedList(proc, "closure") {
		params := Cadr(proc)
		body := Caddr(proc)
		closedEnv := Cdddr(proc)
		newEnv := c.ExtendEnvironment(params, args, closedEnv)
		if isError(newEnv) {
			return newEnv
		}
		return c.evalSequence(body, newEnv)
	}

	return c.NewError("unknown procedure type")
}
