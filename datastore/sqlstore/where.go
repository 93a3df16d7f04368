/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kamileo242/EventManager/converter"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

var stringType = reflect.TypeOf("")

// where renders a predicate body as a SQL boolean expression. Every
// rendered comparison is two-valued: null-safe equality, and orderings and
// string tests wrapped in IS TRUE so that NOT never meets an SQL NULL.
type where struct {
	dialect Dialect
	table   registry.Table
	args    []any
}

// Where renders p against table and returns the clause with its arguments.
func Where[D any](dialect Dialect, table registry.Table, p predicate.Predicate[D]) (string, []any, error) {
	w := &where{dialect: dialect, table: table}
	if p.Body == nil {
		return "1=1", nil, nil
	}
	clause, err := w.boolean(p.Body)
	if err != nil {
		return "", nil, fmt.Errorf("render filter on %s: %w", table.Name, err)
	}
	return clause, w.args, nil
}

func (w *where) boolean(n predicate.Node) (string, error) {
	switch n := n.(type) {
	case predicate.Const:
		b, ok := n.Value.(bool)
		if !ok {
			return "", fmt.Errorf("%s is not a boolean", n)
		}
		return truth(b), nil
	case predicate.Logic:
		left, err := w.boolean(n.Left)
		if err != nil {
			return "", err
		}
		right, err := w.boolean(n.Right)
		if err != nil {
			return "", err
		}
		op := "AND"
		if n.Op == predicate.OpOr {
			op = "OR"
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil
	case predicate.Not:
		operand, err := w.boolean(n.Operand)
		if err != nil {
			return "", err
		}
		return "NOT " + operand, nil
	case predicate.HasValue:
		col, err := w.column(n.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s IS NOT NULL)", quote(col.Name)), nil
	case predicate.Compare:
		return w.compare(n)
	case predicate.Call:
		return w.call(n)
	}
	return "", fmt.Errorf("unsupported node %T", n)
}

func (w *where) compare(c predicate.Compare) (string, error) {
	lc, lIsCol := w.tryColumn(c.Left)
	rc, rIsCol := w.tryColumn(c.Right)

	if !lIsCol && !rIsCol {
		// literal against literal folds to a constant
		ok, err := predicate.Eval(predicate.New[struct{}]("_", c), struct{}{})
		if err != nil {
			return "", err
		}
		return truth(ok), nil
	}

	var left, right string
	var err error
	if lIsCol {
		left = quote(lc.Name)
	}
	if rIsCol {
		right = quote(rc.Name)
	}
	if !lIsCol {
		if left, err = w.literal(c.Left, rc.Type); err != nil {
			return "", err
		}
	}
	if !rIsCol {
		if right, err = w.literal(c.Right, lc.Type); err != nil {
			return "", err
		}
	}

	switch c.Op {
	case predicate.OpEq:
		return "(" + fmt.Sprintf(w.dialect.equal, left, right) + ")", nil
	case predicate.OpNe:
		return "(" + fmt.Sprintf(w.dialect.notEqual, left, right) + ")", nil
	}
	if left == "NULL" || right == "NULL" {
		return truth(false), nil
	}
	op := map[predicate.CompareOp]string{
		predicate.OpLt: "<", predicate.OpLe: "<=", predicate.OpGt: ">", predicate.OpGe: ">=",
	}[c.Op]
	if op == "" {
		return "", fmt.Errorf("unsupported operator %s", c.Op)
	}
	return fmt.Sprintf("((%s %s %s) IS TRUE)", left, op, right), nil
}

func (w *where) call(c predicate.Call) (string, error) {
	col, err := w.column(c.Target)
	if err != nil {
		return "", err
	}
	if len(c.Args) != 1 {
		return "", fmt.Errorf("%s takes one argument", c.Method)
	}
	arg, err := w.literal(c.Args[0], stringType)
	if err != nil {
		return "", err
	}
	if arg == "NULL" {
		return truth(false), nil
	}
	arg = fmt.Sprintf(w.dialect.text, arg)
	name := quote(col.Name)

	var expr string
	switch c.Method {
	case predicate.MethodContains:
		expr = fmt.Sprintf(w.dialect.position, name, arg) + " > 0"
	case predicate.MethodStartsWith:
		expr = fmt.Sprintf(w.dialect.position, name, arg) + " = 1"
	case predicate.MethodEndsWith:
		expr = fmt.Sprintf("substr(%s, length(%s) - length(%s) + 1) = %s", name, name, arg, arg)
	default:
		return "", fmt.Errorf("unsupported method %s", c.Method)
	}
	return fmt.Sprintf("((%s) IS TRUE)", expr), nil
}

// tryColumn resolves n to a column of the table when n reads a field of
// the free variable, looking through ValueOf.
func (w *where) tryColumn(n predicate.Node) (registry.Column, bool) {
	col, err := w.column(n)
	return col, err == nil
}

func (w *where) column(n predicate.Node) (registry.Column, error) {
	if v, ok := n.(predicate.ValueOf); ok {
		return w.column(v.Operand)
	}
	m, ok := n.(predicate.Member)
	if !ok {
		return registry.Column{}, fmt.Errorf("%s is not a column", n)
	}
	if _, direct := m.Target.(predicate.Param); !direct {
		return registry.Column{}, fmt.Errorf("nested member %s is not supported", m)
	}
	col, ok := w.table.Column(m.Field)
	if !ok {
		return registry.Column{}, fmt.Errorf("%s has no column for field %s", w.table.Name, m.Field)
	}
	return col, nil
}

// literal binds a constant in the representation of the column it is
// compared with. Null renders as NULL.
func (w *where) literal(n predicate.Node, as reflect.Type) (string, error) {
	if v, ok := n.(predicate.ValueOf); ok {
		return w.literal(v.Operand, as)
	}
	c, ok := n.(predicate.Const)
	if !ok {
		return "", fmt.Errorf("%s is neither a column nor a literal", n)
	}
	if isNil(c.Value) {
		return "NULL", nil
	}
	for as.Kind() == reflect.Pointer {
		as = as.Elem()
	}
	value := c.Value
	if as.Kind() == reflect.Slice && !reflect.TypeOf(value).ConvertibleTo(as) {
		as = stringType
	}
	value, err := converter.Coerce(value, as)
	if err != nil {
		// 10.5 against an integer column compares as a number
		if !isNumber(reflect.TypeOf(c.Value)) || !isNumber(as) {
			return "", fmt.Errorf("bind %s: %w", c, err)
		}
		value = c.Value
	}
	bound, err := w.dialect.bind(value)
	if err != nil {
		return "", err
	}
	w.args = append(w.args, bound)
	return w.dialect.placeholder(len(w.args)), nil
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

func isNumber(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func truth(b bool) string {
	if b {
		return "1=1"
	}
	return "1=0"
}

// columnList renders the quoted column names of the table.
func columnList(table registry.Table) string {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = quote(c.Name)
	}
	return strings.Join(names, ", ")
}

func keyList(table registry.Table) string {
	names := make([]string, len(table.Keys))
	for i, c := range table.Keys {
		names[i] = quote(c.Name)
	}
	return strings.Join(names, ", ")
}
