package querylang

import (
	"strconv"
	"strings"

	"github.com/peniel-r/cortex/internal/node"
)

// Resolver looks up a node by id, used to evaluate a link() sub-query
// against its target.
type Resolver interface {
	Lookup(id string) (*node.Node, bool)
}

// Evaluate reports whether n satisfies expr, evaluated strictly left to
// right with no precedence between AND and OR (spec.md section 4.7).
func Evaluate(expr *Expr, n *node.Node, resolver Resolver) bool {
	result := evalTerm(expr.First, n, resolver)
	for _, r := range expr.Rest {
		next := evalTerm(r.Term, n, resolver)
		if r.Op == BoolAnd {
			result = result && next
		} else {
			result = result || next
		}
	}
	return result
}

func evalTerm(t Term, n *node.Node, resolver Resolver) bool {
	switch v := t.(type) {
	case *FieldCond:
		return evalField(v, n)
	case *LinkCond:
		return evalLink(v, n, resolver)
	case *Expr:
		return Evaluate(v, n, resolver)
	default:
		return false
	}
}

func evalField(f *FieldCond, n *node.Node) bool {
	values, ok := fieldValues(n, f.Ident)
	if !ok {
		return false
	}
	for _, v := range values {
		if compare(f.Op, v, f.Value) {
			return true
		}
	}
	return false
}

func evalLink(l *LinkCond, n *node.Node, resolver Resolver) bool {
	conns := n.AllConnections(node.ConnectionKind(l.ConnType))
	for _, c := range conns {
		if l.Target.SubQuery == nil {
			if c.TargetID == l.Target.LiteralID {
				return true
			}
			continue
		}
		if resolver == nil {
			continue
		}
		target, ok := resolver.Lookup(c.TargetID)
		if !ok {
			continue
		}
		if evalField(l.Target.SubQuery, target) {
			return true
		}
	}
	return false
}

// compare applies op between actual (a node's resolved field value) and
// value (the query's literal). gt/lt/gte/lte compare numerically when
// both sides parse as float64, falling back to lexicographic string
// comparison otherwise.
func compare(op Op, actual, value string) bool {
	switch op {
	case OpEq:
		return actual == value
	case OpNeq:
		return actual != value
	case OpContains:
		return strings.Contains(actual, value)
	case OpNotContains:
		return !strings.Contains(actual, value)
	case OpGt, OpLt, OpGte, OpLte:
		af, aok := strconv.ParseFloat(actual, 64)
		vf, vok := strconv.ParseFloat(value, 64)
		if aok && vok {
			switch op {
			case OpGt:
				return af > vf
			case OpLt:
				return af < vf
			case OpGte:
				return af >= vf
			case OpLte:
				return af <= vf
			}
		}
		switch op {
		case OpGt:
			return actual > value
		case OpLt:
			return actual < value
		case OpGte:
			return actual >= value
		case OpLte:
			return actual <= value
		}
	}
	return false
}
