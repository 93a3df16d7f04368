/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package coerce holds the structural value coercions shared by the
// converter, the mapping registry and the storage backends.
//
// Rules, tried in order:
//   - nil or invalid source yields the zero value of the target
//   - pointer targets wrap the coerced element, pointer sources are
//     dereferenced (nil becomes zero)
//   - assignable values are copied, slices and maps are cloned
//   - numeric kinds convert between each other with an overflow check
//   - string kinds convert between each other
//   - convertible structs and arrays convert (time.Time <-> strfmt.DateTime)
//   - encoding.TextMarshaler sources become string kinds, string kinds
//     become encoding.TextUnmarshaler targets (uuid.UUID <-> strfmt.UUID);
//     empty text yields the zero value
//   - slices coerce element by element
//
// Decimals always come out in canonical form (see Decimal), numbers
// convert to and from decimal.Decimal, and text becomes a lower-cased
// strfmt.UUID.
package coerce

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(strfmt.UUID(""))
)

// Decimal returns d in canonical form: trailing zeros dropped and zero as
// the zero Decimal. Equal amounts are then equal under reflect.DeepEqual
// whichever backend produced them.
func Decimal(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Decimal{}
	}
	return decimal.RequireFromString(d.String())
}

// Possible reports whether values of type src can be coerced into dst.
// A true result does not rule out value-level failures such as unparsable
// text or numeric overflow.
func Possible(src, dst reflect.Type) bool {
	if src == nil || dst == nil {
		return false
	}
	if src.AssignableTo(dst) {
		return true
	}
	if dst.Kind() == reflect.Pointer {
		return Possible(src, dst.Elem())
	}
	if src.Kind() == reflect.Pointer {
		return Possible(src.Elem(), dst)
	}
	switch {
	case isNumeric(src.Kind()) && isNumeric(dst.Kind()):
		return true
	case src == decimalType && isNumeric(dst.Kind()), isNumeric(src.Kind()) && dst == decimalType:
		return true
	case src.Kind() == reflect.String && dst.Kind() == reflect.String:
		return true
	case src.Kind() == reflect.Struct && dst.Kind() == reflect.Struct && src.ConvertibleTo(dst):
		return true
	case src.Kind() == reflect.Array && dst.Kind() == reflect.Array && src.ConvertibleTo(dst):
		return true
	case dst.Kind() == reflect.String && src.Implements(textMarshalerType):
		return true
	case src.Kind() == reflect.String && reflect.PointerTo(dst).Implements(textUnmarshalerType):
		return true
	case src.Kind() == reflect.Slice && dst.Kind() == reflect.Slice:
		return Possible(src.Elem(), dst.Elem())
	}
	return false
}

// Value coerces src into a value of type dst.
func Value(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Zero(dst), nil
	}
	st := src.Type()

	if st.AssignableTo(dst) {
		return clone(src).Convert(dst), nil
	}

	if dst.Kind() == reflect.Pointer {
		if src.Kind() == reflect.Pointer && src.IsNil() {
			return reflect.Zero(dst), nil
		}
		elem, err := Value(src, dst.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(dst.Elem())
		p.Elem().Set(elem)
		return p, nil
	}

	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return reflect.Zero(dst), nil
		}
		return Value(src.Elem(), dst)
	}
	if src.Kind() == reflect.Interface {
		if src.IsNil() {
			return reflect.Zero(dst), nil
		}
		return Value(src.Elem(), dst)
	}

	switch {
	case isNumeric(st.Kind()) && isNumeric(dst.Kind()):
		return numeric(src, dst)
	case st == decimalType && isNumeric(dst.Kind()):
		return numeric(reflect.ValueOf(src.Interface().(decimal.Decimal).InexactFloat64()), dst)
	case isNumeric(st.Kind()) && dst == decimalType:
		return toDecimal(src)
	case st.Kind() == reflect.String && dst == uuidType:
		return reflect.ValueOf(strfmt.UUID(strings.ToLower(src.String()))), nil
	case st.Kind() == reflect.String && dst.Kind() == reflect.String:
		return src.Convert(dst), nil
	case st.Kind() == reflect.Struct && dst.Kind() == reflect.Struct && st.ConvertibleTo(dst):
		return src.Convert(dst), nil
	case st.Kind() == reflect.Array && dst.Kind() == reflect.Array && st.ConvertibleTo(dst):
		return src.Convert(dst), nil
	case dst.Kind() == reflect.String && st.Implements(textMarshalerType):
		text, err := src.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return reflect.Value{}, fmt.Errorf("marshal %s: %w", st, err)
		}
		return reflect.ValueOf(string(text)).Convert(dst), nil
	case st.Kind() == reflect.String && reflect.PointerTo(dst).Implements(textUnmarshalerType):
		out := reflect.New(dst)
		if src.Len() == 0 {
			return out.Elem(), nil
		}
		if err := out.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(src.String())); err != nil {
			return reflect.Value{}, fmt.Errorf("parse %q as %s: %w", src.String(), dst, err)
		}
		if dst == decimalType {
			return reflect.ValueOf(Decimal(out.Elem().Interface().(decimal.Decimal))), nil
		}
		return out.Elem(), nil
	case st.Kind() == reflect.Slice && dst.Kind() == reflect.Slice:
		if src.IsNil() {
			return reflect.Zero(dst), nil
		}
		out := reflect.MakeSlice(dst, src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			v, err := Value(src.Index(i), dst.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(v)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot coerce %s to %s", st, dst)
}

// To is the interface-typed form of Value.
func To(src any, dst reflect.Type) (any, error) {
	v, err := Value(reflect.ValueOf(src), dst)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numeric(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch {
		case src.CanInt():
			n = src.Int()
		case src.CanUint():
			if src.Uint() > math.MaxInt64 {
				return reflect.Value{}, overflow(src, dst)
			}
			n = int64(src.Uint())
		default:
			f := src.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= 1<<63 {
				return reflect.Value{}, overflow(src, dst)
			}
			n = int64(f)
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, overflow(src, dst)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		switch {
		case src.CanInt():
			if src.Int() < 0 {
				return reflect.Value{}, overflow(src, dst)
			}
			n = uint64(src.Int())
		case src.CanUint():
			n = src.Uint()
		default:
			f := src.Float()
			if f != math.Trunc(f) || f < 0 || f >= 1<<64 {
				return reflect.Value{}, overflow(src, dst)
			}
			n = uint64(f)
		}
		if out.OverflowUint(n) {
			return reflect.Value{}, overflow(src, dst)
		}
		out.SetUint(n)
	default:
		var f float64
		switch {
		case src.CanInt():
			f = float64(src.Int())
		case src.CanUint():
			f = float64(src.Uint())
		default:
			f = src.Float()
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, overflow(src, dst)
		}
		out.SetFloat(f)
	}
	return out, nil
}

func toDecimal(src reflect.Value) (reflect.Value, error) {
	var d decimal.Decimal
	switch {
	case src.CanInt():
		d = decimal.NewFromInt(src.Int())
	case src.CanUint():
		d = decimal.NewFromUint64(src.Uint())
	default:
		f := src.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return reflect.Value{}, fmt.Errorf("value %v is not a decimal", f)
		}
		d = decimal.NewFromFloat(f)
	}
	return reflect.ValueOf(Decimal(d)), nil
}

func overflow(src reflect.Value, dst reflect.Type) error {
	return fmt.Errorf("value %v does not fit %s", src.Interface(), dst)
}

// clone copies slices and maps so the result does not alias the source.
// Decimals are put in canonical form.
func clone(v reflect.Value) reflect.Value {
	if v.Type() == decimalType {
		return reflect.ValueOf(Decimal(v.Interface().(decimal.Decimal)))
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(out, v)
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(clone(v.Elem()))
		return out
	}
	return v
}
