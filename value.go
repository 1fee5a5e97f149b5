package lisp

import "strconv"

// Kind tags the seven Value variants of spec.md §3. There is no Kind
// for the empty list; it is the untyped nil Value instead (spec.md
// calls it "the absent value").
type Kind int

const (
	KindInteger Kind = iota
	KindDecimal
	KindString
	KindSymbol
	KindPair
	KindPrimitive
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindPair:
		return "pair"
	case KindPrimitive:
		return "primitive"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is implemented by every heap-allocated Scheme datum. The
// empty list is the untyped Go nil, not a concrete Value — every
// function in this package that accepts a Value must treat nil as
// the absent value described in spec.md §3.
type Value interface {
	Kind() Kind
	Accept(ValueVisitor) error
}

// ValueVisitor dispatches on a Value's concrete variant, the way the
// teacher's tree printer dispatches on AST node kind.
type ValueVisitor interface {
	VisitInteger(*Integer) error
	VisitDecimal(*Decimal) error
	VisitString(*String) error
	VisitSymbol(*Symbol) error
	VisitPair(*Pair) error
	VisitPrimitive(*Primitive) error
	VisitError(*ErrorValue) error
}

type Integer struct{ N int }

func (v *Integer) Kind() Kind                    { return KindInteger }
func (v *Integer) Accept(vis ValueVisitor) error { return vis.VisitInteger(v) }

type Decimal struct{ F float64 }

func (v *Decimal) Kind() Kind                    { return KindDecimal }
func (v *Decimal) Accept(vis ValueVisitor) error { return vis.VisitDecimal(v) }

// String holds opaque bytes; spec.md §3 notes the reader's quoting is
// not otherwise interpreted.
type String struct{ S string }

func (v *String) Kind() Kind                    { return KindString }
func (v *String) Accept(vis ValueVisitor) error { return vis.VisitString(v) }

// Symbol is an identifier. The booleans #t and #f are ordinary Symbol
// values; there is no dedicated boolean variant (spec.md §3).
type Symbol struct{ S string }

func (v *Symbol) Kind() Kind                    { return KindSymbol }
func (v *Symbol) Accept(vis ValueVisitor) error { return vis.VisitSymbol(v) }

// Pair is the cons cell. Either child may be nil (the absent value).
type Pair struct{ L, R Value }

func (v *Pair) Kind() Kind                    { return KindPair }
func (v *Pair) Accept(vis ValueVisitor) error { return vis.VisitPair(v) }

// PrimitiveFunc is the signature of a native operation: it receives
// the already-evaluated argument list and the context, and always
// returns a Value — possibly an *ErrorValue (spec.md §7).
type PrimitiveFunc func(args Value, ctx *Context) Value

// Primitive wraps a native operation. It is never bound directly in
// an environment frame; apply() only recognizes the tagged pair
// `(primitive <Primitive>)` built by Context.primitiveObject, mirroring
// libisp's lisp_type_prim payload wrapped by make_prim/primitive_procedure_objects.
type Primitive struct {
	Name string
	Fn   PrimitiveFunc
}

func (v *Primitive) Kind() Kind                    { return KindPrimitive }
func (v *Primitive) Accept(vis ValueVisitor) error { return vis.VisitPrimitive(v) }

// ErrorValue is the in-band diagnostic sentinel of spec.md §7.2. It is
// never equal to anything, not even itself (see IsEqual).
type ErrorValue struct{ Message string }

func (v *ErrorValue) Kind() Kind                    { return KindError }
func (v *ErrorValue) Accept(vis ValueVisitor) error { return vis.VisitError(v) }

// --- list operations (spec.md §4.4) ---

// Car returns the left child of a Pair, or nil for anything else.
func Car(v Value) Value {
	if p, ok := v.(*Pair); ok {
		return p.L
	}
	return nil
}

// Cdr returns the right child of a Pair, or nil for anything else.
func Cdr(v Value) Value {
	if p, ok := v.(*Pair); ok {
		return p.R
	}
	return nil
}

func Cadr(v Value) Value  { return Car(Cdr(v)) }
func Cddr(v Value) Value  { return Cdr(Cdr(v)) }
func Caar(v Value) Value  { return Car(Car(v)) }
func Cdar(v Value) Value  { return Cdr(Car(v)) }
func Caddr(v Value) Value { return Car(Cddr(v)) }
func Cdddr(v Value) Value { return Cdr(Cddr(v)) }
func Cadar(v Value) Value { return Car(Cdar(v)) }
func Cdadr(v Value) Value { return Cdr(Cadr(v)) }

// ListLength returns 0 for the absent value or a non-Pair, and walks
// cdr otherwise, tolerating (and terminating at) an improper tail.
func ListLength(list Value) int {
	n := 0
	for {
		p, ok := list.(*Pair)
		if !ok {
			return n
		}
		n++
		list = p.R
	}
}

// IsEqual is structural equality (spec.md §4.4). Identical handles are
// always equal; Error values are never equal, not even to themselves.
func IsEqual(a, b Value) bool {
	if a == b {
		if _, isErr := a.(*ErrorValue); isErr {
			return false
		}
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Pair:
		bv := b.(*Pair)
		return IsEqual(av.L, bv.L) && IsEqual(av.R, bv.R)
	case *Integer:
		return av.N == b.(*Integer).N
	case *Decimal:
		return av.F == b.(*Decimal).F
	case *Primitive:
		return av == b.(*Primitive)
	case *String:
		return av.S == b.(*String).S
	case *Symbol:
		return av.S == b.(*Symbol).S
	case *ErrorValue:
		return false
	default:
		return false
	}
}

func isTaggedList(exp Value, tag string) bool {
	p, ok := exp.(*Pair)
	if !ok {
		return false
	}
	sym, ok := p.L.(*Symbol)
	return ok && sym.S == tag
}

func isError(v Value) bool {
	_, ok := v.(*ErrorValue)
	return ok
}

func isTrue(v Value) bool {
	sym, ok := v.(*Symbol)
	return ok && sym.S == "#t"
}

func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
