package lisp

// Environments are frame chains represented as ordinary Scheme data,
// matching original_source/src/eval.c exactly: an environment is a
// pair (first-frame . enclosing-environments), and a frame is a pair
// (variables . values). Representing frames as data rather than a Go
// struct keeps the lookup/define/set! code a direct transliteration
// of the C, and lets interpreted code that captures an environment in
// a closure share the same representation the evaluator walks.

func frameVariables(frame Value) Value { return Car(frame) }
func frameValues(frame Value) Value    { return Cdr(frame) }
func firstFrame(env Value) Value       { return Car(env) }
func enclosingEnv(env Value) Value     { return Cdr(env) }

func makeFrame(c *Context, variables, values Value) Value {
	return c.Cons(variables, values)
}

// ExtendEnvironment pushes a new frame binding variables to values in
// front of baseEnv, matching original_source/src/eval.c's
// extend_environment. A mismatched variable/value count (for example
// a closure applied to the wrong number of arguments, which Apply
// passes straight through) is reported as an in-band Error rather
// than panicking.
func (c *Context) ExtendEnvironment(variables, values, baseEnv Value) Value {
	if ListLength(variables) != ListLength(values) {
		if ListLength(variables) < ListLength(values) {
			return c.NewError("too many arguments supplied")
		}
		return c.NewError("too few arguments supplied")
	}
	return c.Cons(makeFrame(c, variables, values), baseEnv)
}

// LookupVariable walks the frame chain outward from env looking for
// name, returning an Error if it is unbound anywhere in the chain
// (original_source/src/eval.c's lookup_variable_value).
func (c *Context) LookupVariable(name string, env Value) Value {
	for e := env; e != nil; e = enclosingEnv(e) {
		frame := firstFrame(e)
		vars, vals := frameVariables(frame), frameValues(frame)
		for vars != nil {
			v, ok := vars.(*Pair)
			if !ok {
				break
			}
			valPair, _ := vals.(*Pair)
			if sym, ok := v.L.(*Symbol); ok && sym.S == name {
				if valPair == nil {
					return c.NewError("unassigned variable: %s", name)
				}
				return valPair.L
			}
			vars = v.R
			if valPair != nil {
				vals = valPair.R
			}
		}
	}
	return c.NewError("unbound variable: %s", name)
}

// SetVariable implements set!: it mutates the binding for name in the
// nearest enclosing frame that has one, or returns an Error if name is
// unbound anywhere in the chain.
func (c *Context) SetVariable(name string, value, env Value) Value {
	for e := env; e != nil; e = enclosingEnv(e) {
		frame := firstFrame(e)
		vars, vals := frameVariables(frame), frameValues(frame)
		for vars != nil {
			v, ok := vars.(*Pair)
			if !ok {
				break
			}
			valPair, ok := vals.(*Pair)
			if !ok {
				break
			}
			if sym, ok := v.L.(*Symbol); ok && sym.S == name {
				valPair.L = value
				return nil
			}
			vars = v.R
			vals = valPair.R
		}
	}
	return c.NewError("unbound variable: %s", name)
}

// DefineVariable binds name to value in the innermost frame of env
// only, per the Open Question resolution recorded in DESIGN.md: define
// never reaches past the current frame, matching
// original_source/src/eval.c's define_variable, which always scans
// and mutates (or prepends to) first_frame(env) and nothing further
// out.
func (c *Context) DefineVariable(name string, value, env Value) {
	frame := firstFrame(env)
	vars, vals := frameVariables(frame), frameValues(frame)

	for v, vl := vars, vals; v != nil; {
		vp, ok := v.(*Pair)
		if !ok {
			break
		}
		vlp, ok := vl.(*Pair)
		if !ok {
			break
		}
		if sym, ok := vp.L.(*Symbol); ok && sym.S == name {
			vlp.L = value
			return
		}
		v = vp.R
		vl = vlp.R
	}

	newVars := c.Cons(c.NewSymbol(name), vars)
	newVals := c.Cons(value, vals)
	c.SetCar(frame, newVars)
	c.SetCdr(frame, newVals)
}
