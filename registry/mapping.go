/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/internal/coerce"
)

// FieldPair links two same-named fields of a mapped type pair.
type FieldPair struct {
	Name   string
	Source []int
	Target []int
	// SourceType and TargetType differ whenever the converter has to coerce.
	SourceType reflect.Type
	TargetType reflect.Type
}

// Mapping is the field plan for copying Source values into Target values.
// Target fields without a same-named source field are absent from Fields
// and stay at their zero value.
type Mapping struct {
	Source reflect.Type
	Target reflect.Type
	Fields []FieldPair
}

// Field returns the target-side type of the named field.
func (m *Mapping) Field(name string) (FieldPair, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldPair{}, false
}

type typePair struct {
	source reflect.Type
	target reflect.Type
}

// Registry holds the mappings declared at process start. After Seal it is
// read-only and lookups take no locks.
type Registry struct {
	mu       sync.Mutex
	sealed   atomic.Bool
	mappings map[typePair]*Mapping
}

// New returns an empty, unsealed registry.
func New() *Registry {
	return &Registry{mappings: make(map[typePair]*Mapping)}
}

// Register declares that A and B may be converted into each other. Every
// field name present on both types must be coercible in both directions.
func Register[A, B any](r *Registry) error {
	a := reflect.TypeOf((*A)(nil)).Elem()
	b := reflect.TypeOf((*B)(nil)).Elem()
	return r.register(a, b)
}

// MustRegister is like Register but panics on error. It is meant for
// startup code.
func MustRegister[A, B any](r *Registry) {
	if err := Register[A, B](r); err != nil {
		panic(err)
	}
}

func (r *Registry) register(a, b reflect.Type) error {
	if a.Kind() != reflect.Struct || b.Kind() != reflect.Struct {
		return errors.NewConfigurationError(a.String(), b.String(), "", "only struct types can be mapped")
	}
	forward, err := plan(a, b)
	if err != nil {
		return err
	}
	reverse, err := plan(b, a)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return fmt.Errorf("registry: sealed, cannot register %s <-> %s", a, b)
	}
	if _, exists := r.mappings[typePair{a, b}]; exists {
		return fmt.Errorf("registry: mapping %s <-> %s already registered", a, b)
	}
	r.mappings[typePair{a, b}] = forward
	r.mappings[typePair{b, a}] = reverse
	return nil
}

func plan(src, dst reflect.Type) (*Mapping, error) {
	m := &Mapping{Source: src, Target: dst}
	sourceFields := make(map[string]reflect.StructField)
	for _, f := range exportedFields(src) {
		sourceFields[f.Name] = f
	}
	for _, f := range exportedFields(dst) {
		sf, ok := sourceFields[f.Name]
		if !ok {
			continue
		}
		if !coerce.Possible(sf.Type, f.Type) {
			return nil, errors.NewConfigurationError(src.String(), dst.String(), f.Name,
				fmt.Sprintf("cannot coerce %s to %s", sf.Type, f.Type))
		}
		m.Fields = append(m.Fields, FieldPair{
			Name:       f.Name,
			Source:     sf.Index,
			Target:     f.Index,
			SourceType: sf.Type,
			TargetType: f.Type,
		})
	}
	return m, nil
}

// Seal freezes the registry. Further Register calls fail.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed.Store(true)
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Lookup returns the mapping from src to dst values.
func (r *Registry) Lookup(src, dst reflect.Type) (*Mapping, bool) {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	m, ok := r.mappings[typePair{src, dst}]
	return m, ok
}
