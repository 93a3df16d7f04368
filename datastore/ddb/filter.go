/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/kamileo242/EventManager/converter"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

var (
	// errUnsupported marks predicates DynamoDB cannot evaluate server side.
	errUnsupported = errors.New("not expressible as a filter expression")

	errNotAttribute = errors.New("not an attribute")
)

// filter renders predicates as DynamoDB FilterExpressions. Missing
// attributes stand for null: they are unequal to every value and never
// satisfy an ordering.
type filter struct {
	table  registry.Table
	names  map[string]string
	values map[string]types.AttributeValue
}

func newFilter(table registry.Table) *filter {
	return &filter{
		table:  table,
		names:  map[string]string{"#entityType": attrEntityType},
		values: map[string]types.AttributeValue{":entityType": &types.AttributeValueMemberS{Value: table.Name}},
	}
}

// render returns the full expression: the entity type guard and, when the
// predicate has a body, the rendered body.
func (f *filter) render(body predicate.Node) (string, error) {
	guard := "#entityType = :entityType"
	if body == nil {
		return guard, nil
	}
	if c, ok := body.(predicate.Const); ok && c.Value == true {
		return guard, nil
	}
	expr, err := f.boolean(body)
	if err != nil {
		return "", err
	}
	return guard + " AND " + expr, nil
}

func (f *filter) boolean(n predicate.Node) (string, error) {
	switch n := n.(type) {
	case predicate.Const:
		b, ok := n.Value.(bool)
		if !ok {
			return "", fmt.Errorf("%s is not a boolean", n)
		}
		return f.truth(b), nil
	case predicate.Logic:
		left, err := f.boolean(n.Left)
		if err != nil {
			return "", err
		}
		right, err := f.boolean(n.Right)
		if err != nil {
			return "", err
		}
		op := "AND"
		if n.Op == predicate.OpOr {
			op = "OR"
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil
	case predicate.Not:
		operand, err := f.boolean(n.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(NOT %s)", operand), nil
	case predicate.HasValue:
		name, _, err := f.attribute(n.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("attribute_exists(%s)", name), nil
	case predicate.Compare:
		return f.compare(n)
	case predicate.Call:
		return f.call(n)
	}
	return "", fmt.Errorf("unsupported node %T", n)
}

func (f *filter) compare(c predicate.Compare) (string, error) {
	left, lcol, lerr := f.attribute(c.Left)
	right, rcol, rerr := f.attribute(c.Right)
	for _, err := range []error{lerr, rerr} {
		if err != nil && !errors.Is(err, errNotAttribute) {
			return "", err
		}
	}
	lIsAttr, rIsAttr := lerr == nil, rerr == nil

	if !lIsAttr && !rIsAttr {
		ok, err := predicate.Eval(predicate.New[struct{}]("_", c), struct{}{})
		if err != nil {
			return "", err
		}
		return f.truth(ok), nil
	}

	var err error
	var nullSide string
	if !lIsAttr {
		if left, err = f.literal(c.Left, rcol.Type); err != nil {
			return "", err
		}
		if left == "" {
			nullSide = right
		}
	}
	if !rIsAttr {
		if right, err = f.literal(c.Right, lcol.Type); err != nil {
			return "", err
		}
		if right == "" {
			nullSide = left
		}
	}

	if nullSide != "" {
		switch c.Op {
		case predicate.OpEq:
			return fmt.Sprintf("attribute_not_exists(%s)", nullSide), nil
		case predicate.OpNe:
			return fmt.Sprintf("attribute_exists(%s)", nullSide), nil
		}
		return f.truth(false), nil
	}

	switch c.Op {
	case predicate.OpEq:
		if lIsAttr && rIsAttr {
			return fmt.Sprintf("(%s = %s OR (attribute_not_exists(%s) AND attribute_not_exists(%s)))", left, right, left, right), nil
		}
		return fmt.Sprintf("%s = %s", left, right), nil
	case predicate.OpNe:
		if lIsAttr && rIsAttr {
			return fmt.Sprintf("(NOT (%s = %s) AND NOT (attribute_not_exists(%s) AND attribute_not_exists(%s)))", left, right, left, right), nil
		}
		attr := left
		if !lIsAttr {
			attr = right
		}
		return fmt.Sprintf("(%s <> %s OR attribute_not_exists(%s))", left, right, attr), nil
	}

	op := map[predicate.CompareOp]string{
		predicate.OpLt: "<", predicate.OpLe: "<=", predicate.OpGt: ">", predicate.OpGe: ">=",
	}[c.Op]
	if op == "" {
		return "", fmt.Errorf("unsupported operator %s", c.Op)
	}
	return fmt.Sprintf("%s %s %s", left, op, right), nil
}

func (f *filter) call(c predicate.Call) (string, error) {
	name, col, err := f.attribute(c.Target)
	if err != nil {
		return "", err
	}
	if len(c.Args) != 1 {
		return "", fmt.Errorf("%s takes one argument", c.Method)
	}
	elem := reflect.TypeOf("")
	if t := deref(col.Type); t.Kind() == reflect.Slice {
		elem = t.Elem()
	}
	arg, err := f.literal(c.Args[0], elem)
	if err != nil {
		return "", err
	}
	if arg == "" {
		return f.truth(false), nil
	}
	switch c.Method {
	case predicate.MethodContains:
		return fmt.Sprintf("contains(%s, %s)", name, arg), nil
	case predicate.MethodStartsWith:
		return fmt.Sprintf("begins_with(%s, %s)", name, arg), nil
	}
	return "", fmt.Errorf("%s: %w", c.Method, errUnsupported)
}

// attribute resolves n to a placeholder for a column attribute.
func (f *filter) attribute(n predicate.Node) (string, registry.Column, error) {
	if v, ok := n.(predicate.ValueOf); ok {
		return f.attribute(v.Operand)
	}
	m, ok := n.(predicate.Member)
	if !ok {
		return "", registry.Column{}, fmt.Errorf("%s: %w", n, errNotAttribute)
	}
	if _, direct := m.Target.(predicate.Param); !direct {
		return "", registry.Column{}, fmt.Errorf("nested member %s: %w", m, errUnsupported)
	}
	col, ok := f.table.Column(m.Field)
	if !ok {
		return "", registry.Column{}, fmt.Errorf("%s has no attribute for field %s", f.table.Name, m.Field)
	}
	placeholder := "#" + col.Attribute
	f.names[placeholder] = col.Attribute
	return placeholder, col, nil
}

// literal binds a constant coerced to the attribute type. It returns ""
// for null.
func (f *filter) literal(n predicate.Node, as reflect.Type) (string, error) {
	if v, ok := n.(predicate.ValueOf); ok {
		return f.literal(v.Operand, as)
	}
	c, ok := n.(predicate.Const)
	if !ok {
		return "", fmt.Errorf("%s is neither an attribute nor a literal", n)
	}
	if isNil(c.Value) {
		return "", nil
	}
	value, err := converter.Coerce(c.Value, deref(as))
	if err != nil {
		if !isNumber(reflect.TypeOf(c.Value)) || !isNumber(deref(as)) {
			return "", fmt.Errorf("bind %s: %w", c, err)
		}
		value = c.Value
	}
	av, err := encodeValue(value)
	if err != nil {
		return "", fmt.Errorf("bind %s: %w", c, err)
	}
	if av == nil {
		return "", nil
	}
	placeholder := fmt.Sprintf(":v%d", len(f.values))
	f.values[placeholder] = av
	return placeholder, nil
}

func (f *filter) truth(b bool) string {
	f.names["#pk"] = attrPK
	if b {
		return "attribute_exists(#pk)"
	}
	return "attribute_not_exists(#pk)"
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isNumber(t reflect.Type) bool {
	if t == reflect.TypeOf(decimal.Decimal{}) {
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
