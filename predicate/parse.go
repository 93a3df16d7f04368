/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// ParamName is the name textual filters may use for the free variable,
// as in `it.LastName == "Nowak"`. Bare identifiers are fields of it.
const ParamName = "it"

// Parse builds a predicate over T from an expr-lang expression. Supported
// are comparisons, and/or/not, the contains, startsWith and endsWith
// operators, literals and nil.
func Parse[T any](source string) (Predicate[T], error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return Predicate[T]{}, fmt.Errorf("parse filter: %w", err)
	}
	body, err := lower(tree.Node)
	if err != nil {
		return Predicate[T]{}, fmt.Errorf("parse filter %q: %w", source, err)
	}
	p := New[T](ParamName, body)
	for _, field := range Fields(p.Body) {
		if !hasField(p.Param.Type, field) {
			return Predicate[T]{}, fmt.Errorf("parse filter %q: %s has no field %s", source, p.Param.Type, field)
		}
	}
	return p, nil
}

var compareOps = map[string]CompareOp{
	"==": OpEq, "!=": OpNe, "<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
}

var logicOps = map[string]LogicOp{
	"&&": OpAnd, "and": OpAnd, "||": OpOr, "or": OpOr,
}

var methodOps = map[string]Method{
	"contains": MethodContains, "startsWith": MethodStartsWith, "endsWith": MethodEndsWith,
}

func lower(n ast.Node) (Node, error) {
	switch n := n.(type) {
	case *ast.IdentifierNode:
		if n.Value == ParamName {
			return Param{}, nil
		}
		return Field(n.Value), nil
	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, fmt.Errorf("unsupported member access %T", n.Property)
		}
		target, err := lower(n.Node)
		if err != nil {
			return nil, err
		}
		return Member{Target: target, Field: prop.Value}, nil
	case *ast.StringNode:
		return Value(n.Value), nil
	case *ast.IntegerNode:
		return Value(n.Value), nil
	case *ast.FloatNode:
		return Value(n.Value), nil
	case *ast.BoolNode:
		return Value(n.Value), nil
	case *ast.NilNode:
		return Value(nil), nil
	case *ast.ConstantNode:
		return Value(n.Value), nil
	case *ast.UnaryNode:
		operand, err := lower(n.Node)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "!", "not":
			return Negate(operand), nil
		case "-":
			return negative(operand)
		case "+":
			return operand, nil
		}
		return nil, fmt.Errorf("unsupported operator %s", n.Operator)
	case *ast.BinaryNode:
		left, err := lower(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := lower(n.Right)
		if err != nil {
			return nil, err
		}
		if op, ok := compareOps[n.Operator]; ok {
			return Compare{Op: op, Left: left, Right: right}, nil
		}
		if op, ok := logicOps[n.Operator]; ok {
			return Logic{Op: op, Left: left, Right: right}, nil
		}
		if m, ok := methodOps[n.Operator]; ok {
			return Call{Method: m, Target: left, Args: []Node{right}}, nil
		}
		return nil, fmt.Errorf("unsupported operator %s", n.Operator)
	}
	return nil, fmt.Errorf("unsupported expression %T", n)
}

func negative(n Node) (Node, error) {
	c, ok := n.(Const)
	if !ok {
		return nil, fmt.Errorf("unary minus needs a number literal")
	}
	switch v := c.Value.(type) {
	case int:
		return Value(-v), nil
	case float64:
		return Value(-v), nil
	}
	return nil, fmt.Errorf("unary minus needs a number literal, got %T", c.Value)
}
