// Package predicate implements the small total expression grammar health
// rules use to describe conditions, scoring adjustments, and recommendation
// triggers over a device record (spec §4.7): equality, ordered comparison,
// boolean negation, conjunction, disjunction, and field-existence. There are
// no loops, no I/O, and no mutation; evaluation never panics and a missing
// field is a distinguished absent value that makes every comparison false.
package predicate

import (
	"github.com/spf13/cast"
)

// Expr is one node of the predicate AST. Eval must be total: it never
// panics and always returns a bool, even for a record missing every field
// the predicate mentions.
type Expr interface {
	Eval(fields map[string]any) bool
}

// Exists holds iff Field is present in fields.
type Exists struct {
	Field string
}

func (e Exists) Eval(fields map[string]any) bool {
	_, ok := fields[e.Field]
	return ok
}

// Eq holds iff Field is present and equal to Value, coerced by Value's type.
type Eq struct {
	Field string
	Value any
}

func (e Eq) Eval(fields map[string]any) bool {
	v, ok := fields[e.Field]
	if !ok {
		return false
	}
	return equalsAs(v, e.Value)
}

// Gt holds iff Field is present and its numeric value exceeds Value.
type Gt struct {
	Field string
	Value float64
}

func (e Gt) Eval(fields map[string]any) bool {
	v, ok := fields[e.Field]
	if !ok {
		return false
	}
	return cast.ToFloat64(v) > e.Value
}

// Gte holds iff Field is present and its numeric value is at least Value.
type Gte struct {
	Field string
	Value float64
}

func (e Gte) Eval(fields map[string]any) bool {
	v, ok := fields[e.Field]
	if !ok {
		return false
	}
	return cast.ToFloat64(v) >= e.Value
}

// Lt holds iff Field is present and its numeric value is below Value.
type Lt struct {
	Field string
	Value float64
}

func (e Lt) Eval(fields map[string]any) bool {
	v, ok := fields[e.Field]
	if !ok {
		return false
	}
	return cast.ToFloat64(v) < e.Value
}

// Lte holds iff Field is present and its numeric value is at most Value.
type Lte struct {
	Field string
	Value float64
}

func (e Lte) Eval(fields map[string]any) bool {
	v, ok := fields[e.Field]
	if !ok {
		return false
	}
	return cast.ToFloat64(v) <= e.Value
}

// Not negates Inner.
type Not struct {
	Inner Expr
}

func (n Not) Eval(fields map[string]any) bool {
	return !n.Inner.Eval(fields)
}

// And holds iff every operand holds; And{} (no operands) holds vacuously.
type And struct {
	Exprs []Expr
}

func (a And) Eval(fields map[string]any) bool {
	for _, e := range a.Exprs {
		if !e.Eval(fields) {
			return false
		}
	}
	return true
}

// Or holds iff any operand holds; Or{} (no operands) never holds.
type Or struct {
	Exprs []Expr
}

func (o Or) Eval(fields map[string]any) bool {
	for _, e := range o.Exprs {
		if e.Eval(fields) {
			return true
		}
	}
	return false
}

func equalsAs(v, want any) bool {
	switch w := want.(type) {
	case bool:
		return cast.ToBool(v) == w
	case string:
		return cast.ToString(v) == w
	case int:
		return cast.ToInt64(v) == int64(w)
	case int64:
		return cast.ToInt64(v) == w
	case float64:
		return cast.ToFloat64(v) == w
	default:
		return cast.ToString(v) == cast.ToString(want)
	}
}
