package lisp

import (
	"fmt"
	"strings"
)

// printer implements ValueVisitor to render a Value as source text,
// matching original_source/src/print.c's lisp_print exactly: the
// absent value prints as "()", the global environment prints as the
// opaque token "<env>" rather than being walked (it would otherwise
// dump the entire primitive table), and an *ErrorValue prints as
// "ERROR: '<message>'".
type printer struct {
	ctx *Context
	buf strings.Builder
}

// Print renders v as it would be typed back into the reader, per
// spec.md §4.9.
func (c *Context) Print(v Value) string {
	if v == nil {
		return "()"
	}
	if v == c.globalEnv {
		return "<env>"
	}
	p := &printer{ctx: c}
	_ = v.Accept(p)
	return p.buf.String()
}

func (p *printer) VisitInteger(v *Integer) error {
	fmt.Fprintf(&p.buf, "%d", v.N)
	return nil
}

func (p *printer) VisitDecimal(v *Decimal) error {
	p.buf.WriteString(formatDecimal(v.F))
	return nil
}

func (p *printer) VisitString(v *String) error {
	p.buf.WriteByte('"')
	p.buf.WriteString(v.S)
	p.buf.WriteByte('"')
	return nil
}

func (p *printer) VisitSymbol(v *Symbol) error {
	p.buf.WriteString(v.S)
	return nil
}

func (p *printer) VisitPrimitive(v *Primitive) error {
	p.buf.WriteString("<proc>")
	return nil
}

func (p *printer) VisitError(v *ErrorValue) error {
	fmt.Fprintf(&p.buf, "ERROR: '%s'", v.Message)
	return nil
}

// VisitPair renders compound procedures and primitive objects
// opaquely (matching print.c never expanding a closure's captured
// environment into the output) and otherwise prints list/dotted-pair
// syntax recursively.
func (p *printer) VisitPair(v *Pair) error {
	if isTaggedList(v, "closure") {
		p.buf.WriteString("<proc>")
		return nil
	}
	if isTaggedList(v, "primitive") {
		if _, ok := Cdr(v).(*Primitive); ok {
			p.buf.WriteString("<proc>")
			return nil
		}
	}

	p.buf.WriteByte('(')
	p.printListBody(v)
	p.buf.WriteByte(')')
	return nil
}

func (p *printer) printListBody(v Value) {
	pair, ok := v.(*Pair)
	if !ok {
		// Reaching a non-pair, non-nil tail means an improper list:
		// render it dotted, matching print.c's handling of a cdr that
		// isn't itself a pair or the absent value.
		p.buf.WriteString(". ")
		p.printValue(v)
		return
	}
	p.printValue(pair.L)
	switch {
	case pair.R == nil:
		return
	default:
		if _, ok := pair.R.(*Pair); ok {
			p.buf.WriteByte(' ')
			p.printListBody(pair.R)
			return
		}
		p.buf.WriteString(" . ")
		p.printValue(pair.R)
	}
}

func (p *printer) printValue(v Value) {
	if v == nil {
		p.buf.WriteString("()")
		return
	}
	if v == p.ctx.globalEnv {
		p.buf.WriteString("<env>")
		return
	}
	_ = v.Accept(p)
}
