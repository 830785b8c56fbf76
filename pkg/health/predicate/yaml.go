package predicate

import "fmt"

// Raw is the YAML-decoded shape of one predicate node, used as the
// intermediate form between `gopkg.in/yaml.v3` and the Expr tree. Rule files
// declare predicates as nested Raw values; Parse turns one into an Expr.
type Raw struct {
	Op    string `yaml:"op"`
	Field string `yaml:"field,omitempty"`
	Value any    `yaml:"value,omitempty"`
	Expr  *Raw   `yaml:"expr,omitempty"`
	Exprs []Raw  `yaml:"exprs,omitempty"`
}

// Parse compiles a Raw node into an Expr, recursively. An unknown op or a
// malformed combinator is a schema error in the rule file itself, reported
// to the caller rather than panicking: the predicate grammar is total once
// compiled, but compilation from untrusted YAML is not.
func Parse(r Raw) (Expr, error) {
	switch r.Op {
	case "exists":
		return Exists{Field: r.Field}, nil
	case "eq":
		return Eq{Field: r.Field, Value: r.Value}, nil
	case "gt":
		return Gt{Field: r.Field, Value: toFloat(r.Value)}, nil
	case "gte":
		return Gte{Field: r.Field, Value: toFloat(r.Value)}, nil
	case "lt":
		return Lt{Field: r.Field, Value: toFloat(r.Value)}, nil
	case "lte":
		return Lte{Field: r.Field, Value: toFloat(r.Value)}, nil
	case "not":
		if r.Expr == nil {
			return nil, fmt.Errorf("predicate: %q requires \"expr\"", r.Op)
		}
		inner, err := Parse(*r.Expr)
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	case "and":
		exprs, err := parseAll(r.Exprs)
		if err != nil {
			return nil, err
		}
		return And{Exprs: exprs}, nil
	case "or":
		exprs, err := parseAll(r.Exprs)
		if err != nil {
			return nil, err
		}
		return Or{Exprs: exprs}, nil
	default:
		return nil, fmt.Errorf("predicate: unknown op %q", r.Op)
	}
}

func parseAll(raws []Raw) ([]Expr, error) {
	out := make([]Expr, 0, len(raws))
	for _, r := range raws {
		e, err := Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
