package lisp

import "math"

// addBuiltinPrimitives registers the native operations of spec.md
// §4.6, grounded line for line on original_source/src/builtin.c's
// add_builtin_prim_procs. Registration order matters: it is the order
// primitive_procedure_names/objects hand to ExtendEnvironment when
// SetupEnvironment builds the initial frame.
func (c *Context) addBuiltinPrimitives() {
	c.prims.add("+", primAdd)
	c.prims.add("*", primMul)
	c.prims.add("-", primSub)
	c.prims.add("/", primDiv)
	c.prims.add("=", primCompEq)
	c.prims.add("<", primCompLess)
	c.prims.add(">", primCompMore)
	c.prims.add("or", primOr)
	c.prims.add("and", primAnd)
	c.prims.add("not", primNot)
	c.prims.add("floor", primFloor)
	c.prims.add("ceiling", primCeiling)
	c.prims.add("truncate", primTrunc)
	c.prims.add("round", primRound)
	c.prims.add("max", primMax)
	c.prims.add("min", primMin)
	c.prims.add("eq?", primEq)
	c.prims.add("car", primCar)
	c.prims.add("cdr", primCdr)
	c.prims.add("set-car!", primSetCar)
	c.prims.add("set-cdr!", primSetCdr)
	c.prims.add("cons", primCons)
	c.prims.add("list", primList)
	c.prims.add("number?", primIsNum)
	c.prims.add("real?", primIsNum)
	c.prims.add("integer?", primIsInt)
	c.prims.add("procedure?", primIsProc)
	c.prims.add("symbol->string", primSymToStr)
	c.prims.add("string->symbol", primStrToSym)
	c.prims.add("symbol?", primIsSym)
	c.prims.add("string?", primIsStr)
	c.prims.add("pair?", primIsPair)
	c.prims.add("gcd", primGcd)
	c.prims.add("lcm", primLcm)

	c.prims.add("sin", primSin)
	c.prims.add("cos", primCos)
	c.prims.add("tan", primTan)
	c.prims.add("asin", primAsin)
	c.prims.add("acos", primAcos)
	c.prims.add("atan", primAtan)
	c.prims.add("log", primLog)
	c.prims.add("exp", primExp)
	c.prims.add("expt", primExpt)

	c.prims.add("set-cvar!", primSetCvar)
	c.prims.add("get-cvar", primGetCvar)
}

// bootstrapLibrary is the derived-procedure library SetupEnvironment
// loads after the primitive frame is built, transliterated from
// original_source/src/builtin.c's lisp_setup_env. Defining these in
// Scheme rather than Go keeps them expressible purely in terms of the
// primitives above, exactly as the original does.
var bootstrapLibrary = []string{
	"(define (caar pair) (car (car pair)))",
	"(define (cadr pair) (car (cdr pair)))",
	"(define (cdar pair) (cdr (car pair)))",
	"(define (cddr pair) (cdr (cdr pair)))",

	"(define (caaar pair) (car (car (car pair))))",
	"(define (caadr pair) (car (car (cdr pair))))",
	"(define (cadar pair) (car (cdr (car pair))))",
	"(define (caddr pair) (car (cdr (cdr pair))))",
	"(define (cdaar pair) (cdr (car (car pair))))",
	"(define (cdadr pair) (cdr (car (cdr pair))))",
	"(define (cddar pair) (cdr (cdr (car pair))))",
	"(define (cdddr pair) (cdr (cdr (cdr pair))))",

	"(define (caaaar pair) (car (car (car (car pair)))))",
	"(define (caaadr pair) (car (car (car (cdr pair)))))",
	"(define (caadar pair) (car (car (cdr (car pair)))))",
	"(define (caaddr pair) (car (car (cdr (cdr pair)))))",
	"(define (cadaar pair) (car (cdr (car (car pair)))))",
	"(define (cadadr pair) (car (cdr (car (cdr pair)))))",
	"(define (caddar pair) (car (cdr (cdr (car pair)))))",
	"(define (cadddr pair) (car (cdr (cdr (cdr pair)))))",
	"(define (cdaaar pair) (cdr (car (car (car pair)))))",
	"(define (cdaadr pair) (cdr (car (car (cdr pair)))))",
	"(define (cdadar pair) (cdr (car (cdr (car pair)))))",
	"(define (cdaddr pair) (cdr (car (cdr (cdr pair)))))",
	"(define (cddaar pair) (cdr (cdr (car (car pair)))))",
	"(define (cddadr pair) (cdr (cdr (car (cdr pair)))))",
	"(define (cdddar pair) (cdr (cdr (cdr (car pair)))))",
	"(define (cddddr pair) (cdr (cdr (cdr (cdr pair)))))",

	"(define nil '())",
	"(define (zero? exp) (= 0 exp))",
	"(define (null? exp) (eq? exp nil))",
	"(define (negative? exp) (< exp 0))",
	"(define (positive? exp) (> exp 0))",
	"(define (boolean? exp) (or (eq? exp '#t) (eq? exp '#f)))",
	"(define (abs n) (if (negative? n) (- 0 n) n))",
	"(define (<= a b) (not (> a b)))",
	"(define (>= a b) (not (< a b)))",
	"(define (map proc items) (if (null? items) nil (cons (proc (car items)) (map proc (cdr items)))))",
	"(define (fact n) (if (= n 1) 1 (* n (fact (- n 1)))))",
	"(define (delay proc) (lambda () proc))",
	"(define (force proc) (proc))",
	"(define (length list) (define (list-loop part count) (if (null? part) count (list-loop (cdr part) (+ count 1)))) (list-loop list 0))",
	"(define (modulo num div) (- num (* (floor (/ num div)) div)))",
	"(define (quotient num div) (truncate (/ num div)))",
	"(define (remainder num div) (+ (* (quotient num div) div -1) num))",
	"(define (odd? n) (if (= 1 (modulo n 2)) '#t '#f))",
	"(define (even? n) (not (odd? n)))",
	"(define (square n) (* n n))",
	"(define (average a b) (/ (+ a b) 2))",
	"(define (sqrt x) (define (good-enough? guess) (< (abs (- (square guess) x)) 0.000001)) (define (improve guess) (average guess (/ x guess))) (define (sqrt-iter guess) (if (good-enough? guess) (abs guess) (sqrt-iter (improve guess)))) (sqrt-iter 1.0))",
	"(define (append list1 list2) (if (null? list1) list2 (cons (car list1) (append (cdr list1) list2))))",
}

func numArgs(args Value, n int) bool { return ListLength(args) == n }

func primAdd(args Value, ctx *Context) Value {
	iout := 0
	dout := 0.0
	for l := args; l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			return ctx.NewError("+ -- Expected number")
		}
		switch h := p.L.(type) {
		case *Integer:
			iout += h.N
		case *Decimal:
			dout += h.F
		default:
			return ctx.NewError("+ -- Expected number")
		}
		l = p.R
	}
	if dout == 0.0 {
		return ctx.NewInteger(iout)
	}
	if dout+float64(iout) == math.Floor(dout+float64(iout)) {
		return ctx.NewInteger(int(dout) + iout)
	}
	return ctx.NewDecimal(dout + float64(iout))
}

func primMul(args Value, ctx *Context) Value {
	iout := 1
	dout := 1.0
	for l := args; l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			return ctx.NewError("* -- Expected number")
		}
		switch h := p.L.(type) {
		case *Integer:
			iout *= h.N
		case *Decimal:
			dout *= h.F
		default:
			return ctx.NewError("* -- Expected number")
		}
		l = p.R
	}
	if dout == 1.0 {
		return ctx.NewInteger(iout)
	}
	if dout*float64(iout) == math.Floor(dout*float64(iout)) {
		return ctx.NewInteger(int(dout) * iout)
	}
	return ctx.NewDecimal(dout * float64(iout))
}

func primSub(args Value, ctx *Context) Value {
	if ListLength(args) == 0 {
		return ctx.NewError("- -- No operands")
	}
	head := Car(args)
	isDecimal := false
	var istart int
	var dstart float64
	switch h := head.(type) {
	case *Integer:
		istart = h.N
	case *Decimal:
		isDecimal = true
		dstart = h.F
	default:
		return ctx.NewError("- -- Expected number")
	}

	rest := Cdr(args)
	if rest == nil {
		if isDecimal {
			return ctx.NewDecimal(-dstart)
		}
		return ctx.NewInteger(-istart)
	}

	iout, dout := 0, 0.0
	for l := rest; l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			return ctx.NewError("- -- Expected number")
		}
		switch h := p.L.(type) {
		case *Integer:
			iout += h.N
		case *Decimal:
			if !isDecimal {
				isDecimal = true
				dstart = float64(istart)
			}
			dout += h.F
		default:
			return ctx.NewError("- -- Expected number")
		}
		l = p.R
	}

	if !isDecimal {
		return ctx.NewInteger(istart - iout)
	}
	return ctx.NewDecimal(dstart - dout - float64(iout))
}

func primDiv(args Value, ctx *Context) Value {
	if ListLength(args) == 0 {
		return ctx.NewError("/ -- No operands")
	}
	head := Car(args)
	var dstart float64
	switch h := head.(type) {
	case *Integer:
		dstart = float64(h.N)
	case *Decimal:
		dstart = h.F
	default:
		return ctx.NewError("/ -- Expected number")
	}

	rest := Cdr(args)
	if rest == nil {
		return ctx.NewDecimal(1 / dstart)
	}

	dout := 1.0
	for l := rest; l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			return ctx.NewError("/ -- Expected number")
		}
		switch h := p.L.(type) {
		case *Integer:
			dout *= float64(h.N)
		case *Decimal:
			dout *= h.F
		default:
			return ctx.NewError("/ -- Expected number")
		}
		l = p.R
	}

	if dout == 0 {
		return ctx.NewError("/ -- Division by zero")
	}
	if dstart/dout == math.Floor(dstart/dout) {
		return ctx.NewInteger(int(dstart / dout))
	}
	return ctx.NewDecimal(dstart / dout)
}

func numericValue(v Value) (float64, bool) {
	switch h := v.(type) {
	case *Integer:
		return float64(h.N), true
	case *Decimal:
		return h.F, true
	default:
		return 0, false
	}
}

func boolSymbol(ctx *Context, b bool) Value {
	if b {
		return ctx.NewSymbol("#t")
	}
	return ctx.NewSymbol("#f")
}

func primCompEq(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("= -- Expected two operands")
	}
	a, ok1 := Car(args).(*Integer)
	b, ok2 := Cadr(args).(*Integer)
	if ok1 && ok2 {
		return boolSymbol(ctx, a.N == b.N)
	}
	fa, oka := numericValue(Car(args))
	fb, okb := numericValue(Cadr(args))
	if !oka || !okb {
		return ctx.NewError("= -- Expected number")
	}
	return boolSymbol(ctx, fa == fb)
}

func primCompLess(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("< -- Expected two operands")
	}
	fa, oka := numericValue(Car(args))
	fb, okb := numericValue(Cadr(args))
	if !oka || !okb {
		return ctx.NewError("< -- Expected number")
	}
	return boolSymbol(ctx, fa < fb)
}

func primCompMore(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("> -- Expected two operands")
	}
	fa, oka := numericValue(Car(args))
	fb, okb := numericValue(Cadr(args))
	if !oka || !okb {
		return ctx.NewError("> -- Expected number")
	}
	return boolSymbol(ctx, fa > fb)
}

func primOr(args Value, ctx *Context) Value {
	trueSym := ctx.NewSymbol("#t")
	for l := args; l != nil; l = Cdr(l) {
		if IsEqual(Car(l), trueSym) {
			return ctx.NewSymbol("#t")
		}
	}
	return ctx.NewSymbol("#f")
}

func primAnd(args Value, ctx *Context) Value {
	falseSym := ctx.NewSymbol("#f")
	for l := args; l != nil; l = Cdr(l) {
		if IsEqual(Car(l), falseSym) {
			return ctx.NewSymbol("#f")
		}
	}
	return ctx.NewSymbol("#t")
}

func primNot(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("not -- Expected one operand")
	}
	sym, ok := Car(args).(*Symbol)
	if !ok {
		return ctx.NewError("not -- Expected boolean")
	}
	return boolSymbol(ctx, sym.S == "#f")
}

func primFloor(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("floor -- Expected one operand")
	}
	switch h := Car(args).(type) {
	case *Integer:
		return ctx.NewInteger(h.N)
	case *Decimal:
		return ctx.NewInteger(int(math.Floor(h.F)))
	default:
		return ctx.NewError("floor -- Expected number")
	}
}

func primCeiling(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("ceiling -- Expected one operand")
	}
	switch h := Car(args).(type) {
	case *Integer:
		return ctx.NewInteger(h.N)
	case *Decimal:
		return ctx.NewInteger(int(math.Ceil(h.F)))
	default:
		return ctx.NewError("ceiling -- Expected number")
	}
}

func primTrunc(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("truncate -- Expected one operand")
	}
	switch h := Car(args).(type) {
	case *Integer:
		return ctx.NewInteger(h.N)
	case *Decimal:
		if h.F < 0 {
			return ctx.NewInteger(int(math.Ceil(h.F)))
		}
		return ctx.NewInteger(int(math.Floor(h.F)))
	default:
		return ctx.NewError("truncate -- Expected number")
	}
}

// primRound implements round-half-to-even ("banker's rounding"),
// matching original_source/src/builtin.c's prim_round exactly.
func primRound(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("round -- Expected one operand")
	}
	switch h := Car(args).(type) {
	case *Integer:
		return ctx.NewInteger(h.N)
	case *Decimal:
		num := h.F
		fracpart := num - math.Floor(num)
		if fracpart < 0.5 {
			return ctx.NewInteger(int(num - fracpart))
		}
		if fracpart > 0.5 {
			return ctx.NewInteger(int(num - fracpart + 1))
		}
		intpart := int(num - fracpart)
		if intpart%2 != 0 {
			return ctx.NewInteger(intpart + 1)
		}
		return ctx.NewInteger(intpart)
	default:
		return ctx.NewError("round -- Expected number")
	}
}

func primMax(args Value, ctx *Context) Value {
	if ListLength(args) == 0 {
		return ctx.NewError("max -- No operands")
	}
	imax, dmax := 0, 0.0
	for l := args; l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			return ctx.NewError("max -- Expected pair")
		}
		switch h := p.L.(type) {
		case *Integer:
			if h.N > imax {
				imax = h.N
			}
		case *Decimal:
			if h.F > dmax {
				dmax = h.F
			}
		default:
			return ctx.NewError("max -- Expected number")
		}
		l = p.R
	}
	if float64(imax) > dmax {
		return ctx.NewInteger(imax)
	}
	return ctx.NewDecimal(dmax)
}

func primMin(args Value, ctx *Context) Value {
	if ListLength(args) == 0 {
		return ctx.NewError("min -- No operands")
	}
	imin, dmin := math.MaxInt64, math.MaxFloat64
	for l := args; l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			return ctx.NewError("min -- Expected pair")
		}
		switch h := p.L.(type) {
		case *Integer:
			if h.N < imin {
				imin = h.N
			}
		case *Decimal:
			if h.F < dmin {
				dmin = h.F
			}
		}
		l = p.R
	}
	if float64(imin) < dmin {
		return ctx.NewInteger(imin)
	}
	return ctx.NewDecimal(dmin)
}

func primEq(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("eq? -- No operands")
	}
	return boolSymbol(ctx, IsEqual(Car(args), Cadr(args)))
}

func primCar(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("car -- Expected one operand")
	}
	p, ok := Car(args).(*Pair)
	if !ok {
		return ctx.NewError("car -- Expected pair")
	}
	return p.L
}

func primCdr(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("cdr -- Expected one operand")
	}
	p, ok := Car(args).(*Pair)
	if !ok {
		return ctx.NewError("cdr -- Expected pair")
	}
	return p.R
}

func primCons(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("cons -- Expected two operands")
	}
	return ctx.Cons(Car(args), Cadr(args))
}

func primList(args Value, ctx *Context) Value {
	if args == nil {
		return nil
	}
	return ctx.Cons(Car(args), primList(Cdr(args), ctx))
}

func primSetCar(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("set-car! -- Expected two operands")
	}
	head := Car(args)
	if _, ok := head.(*Pair); !ok {
		return ctx.NewError("set-car! -- Expected pair")
	}
	return ctx.SetCar(head, Cadr(args))
}

func primSetCdr(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("set-cdr! -- Expected two operands")
	}
	head := Car(args)
	if _, ok := head.(*Pair); !ok {
		return ctx.NewError("set-cdr! -- Expected pair")
	}
	return ctx.SetCdr(head, Cadr(args))
}

func primSymToStr(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("symbol->string -- Expected one operand")
	}
	sym, ok := Car(args).(*Symbol)
	if !ok {
		return ctx.NewError("symbol->string -- Expected symbol")
	}
	return ctx.NewString(sym.S)
}

func primStrToSym(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("string->symbol -- Expected one operand")
	}
	str, ok := Car(args).(*String)
	if !ok {
		return ctx.NewError("string->symbol -- Expected string")
	}
	return ctx.NewSymbol(str.S)
}

func isType(args Value, kind Kind, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("type predicate -- Expected one operand")
	}
	v := Car(args)
	return boolSymbol(ctx, v != nil && v.Kind() == kind)
}

func primIsSym(args Value, ctx *Context) Value  { return isType(args, KindSymbol, ctx) }
func primIsStr(args Value, ctx *Context) Value  { return isType(args, KindString, ctx) }
func primIsPair(args Value, ctx *Context) Value { return isType(args, KindPair, ctx) }
func primIsInt(args Value, ctx *Context) Value  { return isType(args, KindInteger, ctx) }

func primIsNum(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("number? -- Expected one operand")
	}
	head := Car(args)
	if head == nil {
		return ctx.NewSymbol("#f")
	}
	k := head.Kind()
	return boolSymbol(ctx, k == KindInteger || k == KindDecimal)
}

func primIsProc(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("procedure? -- Expected one operand")
	}
	v := Car(args)
	return boolSymbol(ctx, isTaggedList(v, "closure") || isTaggedList(v, "primitive"))
}

func mathfn(args Value, fn func(float64) float64, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("math function -- Expected one operand")
	}
	f, ok := numericValue(Car(args))
	if !ok {
		return ctx.NewError("math function -- Expected number")
	}
	return ctx.NewDecimal(fn(f))
}

func primSin(args Value, ctx *Context) Value  { return mathfn(args, math.Sin, ctx) }
func primCos(args Value, ctx *Context) Value  { return mathfn(args, math.Cos, ctx) }
func primTan(args Value, ctx *Context) Value  { return mathfn(args, math.Tan, ctx) }
func primAsin(args Value, ctx *Context) Value { return mathfn(args, math.Asin, ctx) }
func primAcos(args Value, ctx *Context) Value { return mathfn(args, math.Acos, ctx) }
func primAtan(args Value, ctx *Context) Value { return mathfn(args, math.Atan, ctx) }
func primLog(args Value, ctx *Context) Value  { return mathfn(args, math.Log, ctx) }
func primExp(args Value, ctx *Context) Value  { return mathfn(args, math.Exp, ctx) }

func primExpt(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("expt -- Expected two operands")
	}
	base, ok1 := numericValue(Car(args))
	ex, ok2 := numericValue(Cadr(args))
	if !ok1 || !ok2 {
		return ctx.NewError("expt -- Expected number")
	}
	return ctx.NewDecimal(math.Pow(base, ex))
}

func gcdInt(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a > b {
		return gcdInt(a%b, b)
	}
	return gcdInt(a, b%a)
}

func lcmInt(a, b int) int { return a * b / gcdInt(a, b) }

func cumulfn(args Value, fn func(int, int) int, ctx *Context) Value {
	if ListLength(args) == 0 {
		return ctx.NewInteger(0)
	}
	head, ok := Car(args).(*Integer)
	if !ok {
		return ctx.NewError("gcd/lcm -- Expected integer")
	}
	cumul := head.N
	for l := Cdr(args); l != nil; {
		p, ok := l.(*Pair)
		if !ok {
			break
		}
		n, ok := p.L.(*Integer)
		if !ok {
			return ctx.NewError("gcd/lcm -- Expected integer")
		}
		cumul = fn(cumul, n.N)
		l = p.R
	}
	return ctx.NewInteger(cumul)
}

func primGcd(args Value, ctx *Context) Value { return cumulfn(args, gcdInt, ctx) }
func primLcm(args Value, ctx *Context) Value { return cumulfn(args, lcmInt, ctx) }

func primSetCvar(args Value, ctx *Context) Value {
	if !numArgs(args, 2) {
		return ctx.NewError("set-cvar! -- Expected two operands")
	}
	name, ok := Car(args).(*Symbol)
	if !ok {
		return ctx.NewError("set-cvar! -- Expected identifier")
	}
	val, ok := Cadr(args).(*Integer)
	if !ok {
		return ctx.NewError("set-cvar! -- Expected integer")
	}
	entry, found := ctx.cvars.find(name.S)
	if !found {
		return ctx.NewError("set-cvar! -- Unknown cvar")
	}
	if entry.access == CvarReadOnly {
		return ctx.NewError("set-cvar! -- Read only")
	}
	*entry.ptr = val.N
	if ctx.shadow != nil {
		switch entry.ptr {
		case &ctx.shadow.verbosity:
			ctx.verbosity = val.N != 0
		case &ctx.shadow.threadTimeout:
			ctx.timeoutSeconds = val.N
		}
	}
	ctx.syncShadow()
	return ctx.NewSymbol("ok")
}

func primGetCvar(args Value, ctx *Context) Value {
	if !numArgs(args, 1) {
		return ctx.NewError("get-cvar -- Expected one operand")
	}
	name, ok := Car(args).(*Symbol)
	if !ok {
		return ctx.NewError("get-cvar -- Expected identifier")
	}
	entry, found := ctx.cvars.find(name.S)
	if !found {
		return ctx.NewError("get-cvar -- Unknown cvar")
	}
	return ctx.NewInteger(*entry.ptr)
}
