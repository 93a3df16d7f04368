/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"fmt"
	"reflect"
	"strings"
)

// Node is an element of a predicate body.
type Node interface {
	fmt.Stringer
	node()
}

// Param is the free variable of a predicate.
type Param struct {
	Name string
	Type reflect.Type
}

// Member reads Field from the value of Target.
type Member struct {
	Target Node
	Field  string
}

// Const is a literal. Value keeps the caller's type.
type Const struct {
	Value any
}

type CompareOp string

const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// Compare is a binary comparison.
type Compare struct {
	Op    CompareOp
	Left  Node
	Right Node
}

type LogicOp string

const (
	OpAnd LogicOp = "&&"
	OpOr  LogicOp = "||"
)

// Logic is a short-circuit conjunction or disjunction.
type Logic struct {
	Op    LogicOp
	Left  Node
	Right Node
}

// Not negates its operand.
type Not struct {
	Operand Node
}

type Method string

const (
	MethodContains   Method = "Contains"
	MethodStartsWith Method = "StartsWith"
	MethodEndsWith   Method = "EndsWith"
)

// Call applies a string method to Target. Contains also tests slice
// membership.
type Call struct {
	Method Method
	Target Node
	Args   []Node
}

// HasValue is true when Operand is not null.
type HasValue struct {
	Operand Node
}

// ValueOf unwraps a nullable operand.
type ValueOf struct {
	Operand Node
}

func (Param) node()    {}
func (Member) node()   {}
func (Const) node()    {}
func (Compare) node()  {}
func (Logic) node()    {}
func (Not) node()      {}
func (Call) node()     {}
func (HasValue) node() {}
func (ValueOf) node()  {}

func (p Param) String() string {
	if p.Name == "" {
		return "_"
	}
	return p.Name
}

func (m Member) String() string { return m.Target.String() + "." + m.Field }

func (c Const) String() string {
	switch v := c.Value.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return fmt.Sprintf("%q", v.String())
	}
	return fmt.Sprintf("%v", c.Value)
}

func (c Compare) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.Op, c.Right)
}

func (l Logic) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right)
}

func (n Not) String() string { return "!" + n.Operand.String() }

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", c.Target, c.Method, strings.Join(args, ", "))
}

func (h HasValue) String() string { return h.Operand.String() + ".HasValue" }

func (v ValueOf) String() string { return v.Operand.String() + ".Value" }

// Predicate is a boolean expression over one value of type T.
type Predicate[T any] struct {
	Param Param
	Body  Node
}

// New binds every parameter reference in body to a fresh parameter of
// type T called name.
func New[T any](name string, body Node) Predicate[T] {
	param := Param{Name: name, Type: reflect.TypeOf((*T)(nil)).Elem()}
	return Predicate[T]{Param: param, Body: bind(body, param)}
}

func (p Predicate[T]) String() string {
	if p.Body == nil {
		return p.Param.String() + " => true"
	}
	return p.Param.String() + " => " + p.Body.String()
}

// Match evaluates p against value.
func (p Predicate[T]) Match(value T) (bool, error) {
	return Eval(p, value)
}

func bind(n Node, param Param) Node {
	return rewrite(n, func(n Node) (Node, bool, error) {
		if _, ok := n.(Param); ok {
			return param, true, nil
		}
		return nil, false, nil
	})
}
