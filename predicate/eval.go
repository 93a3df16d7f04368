/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Eval evaluates p against value. Null operands compare equal only to null
// and never satisfy an ordering, so every comparison is true or false.
func Eval[T any](p Predicate[T], value T) (bool, error) {
	if p.Body == nil {
		return true, nil
	}
	e := evaluator{param: reflect.ValueOf(value)}
	return e.boolean(p.Body)
}

type evaluator struct {
	param reflect.Value
}

func (e evaluator) boolean(n Node) (bool, error) {
	v, err := e.value(n)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("predicate: %s is %T, not bool", n, v)
	}
	return b, nil
}

// value returns the dereferenced value of n, nil standing for null.
func (e evaluator) value(n Node) (any, error) {
	switch n := n.(type) {
	case Param:
		return deref(e.param), nil
	case Const:
		return deref(reflect.ValueOf(n.Value)), nil
	case Member:
		target, err := e.value(n.Target)
		if err != nil || target == nil {
			return nil, err
		}
		v := reflect.ValueOf(target)
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("predicate: cannot read %s from %T", n.Field, target)
		}
		f := v.FieldByName(n.Field)
		if !f.IsValid() {
			return nil, fmt.Errorf("predicate: %T has no field %s", target, n.Field)
		}
		return deref(f), nil
	case HasValue:
		v, err := e.value(n.Operand)
		return v != nil, err
	case ValueOf:
		return e.value(n.Operand)
	case Not:
		b, err := e.boolean(n.Operand)
		return !b, err
	case Logic:
		left, err := e.boolean(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op == OpAnd && !left || n.Op == OpOr && left {
			return left, nil
		}
		return e.boolean(n.Right)
	case Compare:
		left, err := e.value(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.value(n.Right)
		if err != nil {
			return nil, err
		}
		return compare(n.Op, left, right)
	case Call:
		return e.call(n)
	}
	return nil, fmt.Errorf("predicate: cannot evaluate %T", n)
}

func (e evaluator) call(c Call) (any, error) {
	if len(c.Args) != 1 {
		return nil, fmt.Errorf("predicate: %s takes one argument", c.Method)
	}
	target, err := e.value(c.Target)
	if err != nil {
		return nil, err
	}
	arg, err := e.value(c.Args[0])
	if err != nil {
		return nil, err
	}
	if target == nil || arg == nil {
		return false, nil
	}

	if v := reflect.ValueOf(target); v.Kind() == reflect.Slice && c.Method == MethodContains {
		for i := 0; i < v.Len(); i++ {
			eq, err := compare(OpEq, deref(v.Index(i)), arg)
			if err != nil {
				return nil, err
			}
			if eq {
				return true, nil
			}
		}
		return false, nil
	}

	s, ok := normalize(target).(string)
	sub, ok2 := normalize(arg).(string)
	if !ok || !ok2 {
		return nil, fmt.Errorf("predicate: %s needs string operands, got %T and %T", c.Method, target, arg)
	}
	switch c.Method {
	case MethodContains:
		return strings.Contains(s, sub), nil
	case MethodStartsWith:
		return strings.HasPrefix(s, sub), nil
	case MethodEndsWith:
		return strings.HasSuffix(s, sub), nil
	}
	return nil, fmt.Errorf("predicate: unknown method %s", c.Method)
}

func deref(v reflect.Value) any {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func compare(op CompareOp, left, right any) (bool, error) {
	if left == nil || right == nil {
		switch op {
		case OpEq:
			return left == nil && right == nil, nil
		case OpNe:
			return !(left == nil && right == nil), nil
		}
		return false, nil
	}

	l, r := normalize(left), normalize(right)
	// Identifier text is case-insensitive.
	if isIdentifier(left) {
		r = lowerString(r)
	}
	if isIdentifier(right) {
		l = lowerString(l)
	}
	switch op {
	case OpEq:
		return equal(l, r), nil
	case OpNe:
		return !equal(l, r), nil
	}

	c, err := order(l, r)
	if err != nil {
		return false, err
	}
	switch op {
	case OpLt:
		return c < 0, nil
	case OpLe:
		return c <= 0, nil
	case OpGt:
		return c > 0, nil
	case OpGe:
		return c >= 0, nil
	}
	return false, fmt.Errorf("predicate: unknown operator %s", op)
}

// normalize maps values of compatible types onto one representation:
// numbers to decimal.Decimal, date-times to time.Time, identifiers and
// other text types to lower-cased or plain strings. Non-finite floats stay
// float64.
func normalize(v any) any {
	switch v := v.(type) {
	case time.Time:
		return v
	case strfmt.DateTime:
		return time.Time(v)
	case strfmt.UUID:
		return strings.ToLower(string(v))
	case decimal.Decimal:
		return v
	case bool:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return f
		}
		return decimal.NewFromFloat(f)
	case reflect.String:
		return rv.String()
	}
	if m, ok := v.(encoding.TextMarshaler); ok {
		if text, err := m.MarshalText(); err == nil {
			return strings.ToLower(string(text))
		}
	}
	return v
}

func isIdentifier(v any) bool {
	switch v.(type) {
	case strfmt.UUID, uuid.UUID:
		return true
	}
	return false
}

func lowerString(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}

func equal(l, r any) bool {
	switch l := l.(type) {
	case time.Time:
		rt, ok := r.(time.Time)
		return ok && l.Equal(rt)
	case decimal.Decimal:
		rd, ok := r.(decimal.Decimal)
		return ok && l.Equal(rd)
	}
	return reflect.DeepEqual(l, r)
}

func order(l, r any) (int, error) {
	switch l := l.(type) {
	case decimal.Decimal:
		if r, ok := r.(decimal.Decimal); ok {
			return l.Cmp(r), nil
		}
	case float64:
		if r, ok := r.(float64); ok {
			switch {
			case l < r:
				return -1, nil
			case l > r:
				return 1, nil
			}
			return 0, nil
		}
	case string:
		if r, ok := r.(string); ok {
			return strings.Compare(l, r), nil
		}
	case time.Time:
		if r, ok := r.(time.Time); ok {
			return l.Compare(r), nil
		}
	}
	return 0, fmt.Errorf("predicate: cannot order %T and %T", l, r)
}
