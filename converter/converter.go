/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package converter copies values between domain models and storage objects
// by field name, coercing field types where they differ.
package converter

import (
	"fmt"
	"reflect"

	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/internal/coerce"
	"github.com/kamileo242/EventManager/registry"
)

// Converter performs conversions for the type pairs declared in a registry.
// It holds no mutable state and is safe for concurrent use once the
// registry is sealed.
type Converter struct {
	registry *registry.Registry
}

// New returns a converter backed by r.
func New(r *registry.Registry) *Converter {
	return &Converter{registry: r}
}

// Registry returns the registry the converter reads.
func (c *Converter) Registry() *registry.Registry {
	return c.registry
}

// Convert builds a new TOut from source. TOut and source may each be a
// struct or a pointer to one. A nil source yields the zero TOut.
func Convert[TOut any](c *Converter, source any) (TOut, error) {
	var out TOut
	if source == nil {
		return out, nil
	}
	src := reflect.ValueOf(source)
	for src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return out, nil
		}
		src = src.Elem()
	}

	outType := reflect.TypeOf((*TOut)(nil)).Elem()
	target := outType
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	value, err := c.convert(src, target)
	if err != nil {
		return out, err
	}
	if outType.Kind() == reflect.Pointer {
		p := reflect.New(target)
		p.Elem().Set(value)
		return p.Interface().(TOut), nil
	}
	return value.Interface().(TOut), nil
}

// ConvertAll converts every element of sources, preserving order.
func ConvertAll[TOut, TIn any](c *Converter, sources []TIn) ([]TOut, error) {
	out := make([]TOut, 0, len(sources))
	for i := range sources {
		v, err := Convert[TOut](c, &sources[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Converter) convert(src reflect.Value, target reflect.Type) (reflect.Value, error) {
	m, ok := c.registry.Lookup(src.Type(), target)
	if !ok {
		return reflect.Value{}, errors.NewConfigurationError(src.Type().String(), target.String(), "", "")
	}

	out := reflect.New(target).Elem()
	for _, f := range m.Fields {
		v, err := coerce.Value(src.FieldByIndex(f.Source), f.TargetType)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert %s to %s, field %s: %w", m.Source, m.Target, f.Name, err)
		}
		out.FieldByIndex(f.Target).Set(v)
	}
	return out, nil
}

// Coerce converts a single value into type to using the same rules as field
// copies. Backends use it to bind predicate literals in storage form.
func Coerce(value any, to reflect.Type) (any, error) {
	return coerce.To(value, to)
}
