/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

// Field references a field of the predicate's free variable.
func Field(name string) Node { return Member{Target: Param{}, Field: name} }

// Value wraps a literal.
func Value(v any) Node { return Const{Value: v} }

func Eq(l, r Node) Node { return Compare{Op: OpEq, Left: l, Right: r} }
func Ne(l, r Node) Node { return Compare{Op: OpNe, Left: l, Right: r} }
func Lt(l, r Node) Node { return Compare{Op: OpLt, Left: l, Right: r} }
func Le(l, r Node) Node { return Compare{Op: OpLe, Left: l, Right: r} }
func Gt(l, r Node) Node { return Compare{Op: OpGt, Left: l, Right: r} }
func Ge(l, r Node) Node { return Compare{Op: OpGe, Left: l, Right: r} }

// And folds its operands left to right. With no operands it is True.
func And(nodes ...Node) Node { return fold(OpAnd, nodes) }

// Or folds its operands left to right. With no operands it is false.
func Or(nodes ...Node) Node {
	if len(nodes) == 0 {
		return Value(false)
	}
	return fold(OpOr, nodes)
}

func fold(op LogicOp, nodes []Node) Node {
	if len(nodes) == 0 {
		return True()
	}
	out := nodes[0]
	for _, n := range nodes[1:] {
		out = Logic{Op: op, Left: out, Right: n}
	}
	return out
}

func Negate(n Node) Node { return Not{Operand: n} }

func Contains(target, arg Node) Node {
	return Call{Method: MethodContains, Target: target, Args: []Node{arg}}
}

func StartsWith(target, arg Node) Node {
	return Call{Method: MethodStartsWith, Target: target, Args: []Node{arg}}
}

func EndsWith(target, arg Node) Node {
	return Call{Method: MethodEndsWith, Target: target, Args: []Node{arg}}
}

func HasValueOf(n Node) Node { return HasValue{Operand: n} }

func Unwrap(n Node) Node { return ValueOf{Operand: n} }

// True is the always-true body.
func True() Node { return Value(true) }

// All returns the predicate matching every value of T.
func All[T any]() Predicate[T] { return New[T]("x", True()) }
