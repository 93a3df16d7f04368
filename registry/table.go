/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Column describes one persisted field of a storage object.
type Column struct {
	// Field is the Go field name, the name predicates and mappings refer to.
	Field string
	// Name is the column name from the db tag, or Field when untagged.
	Name string
	// Attribute is the json attribute name used by key/value backends.
	Attribute string
	Index     []int
	Type      reflect.Type
	Key       bool
}

// Table describes a storage object type: where it lives and which fields
// form its key.
type Table struct {
	Name    string
	Type    reflect.Type
	Columns []Column
	Keys    []Column
}

// Column returns the column backing the named Go field.
func (t Table) Column(field string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

type tableNamer interface {
	TableName() string
}

var tables sync.Map // reflect.Type -> Table

// DescribeTable returns the table description of storage object type D.
func DescribeTable[D any]() (Table, error) {
	return Describe(reflect.TypeOf((*D)(nil)).Elem())
}

// Describe builds (and caches) the table description of a struct type from
// its db and json tags. Fields tagged db:"-" are not persisted.
func Describe(t reflect.Type) (Table, error) {
	if cached, ok := tables.Load(t); ok {
		return cached.(Table), nil
	}
	if t.Kind() != reflect.Struct {
		return Table{}, fmt.Errorf("registry: %s is not a struct type", t)
	}

	table := Table{Name: strings.ToLower(t.Name()), Type: t}
	if namer, ok := reflect.Zero(t).Interface().(tableNamer); ok {
		table.Name = namer.TableName()
	}

	for _, f := range exportedFields(t) {
		col := Column{Field: f.Name, Name: f.Name, Attribute: f.Name, Index: f.Index, Type: f.Type}
		if tag, ok := f.Tag.Lookup("db"); ok {
			name, opts, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				col.Name = name
			}
			col.Key = opts == "key"
		}
		if tag, ok := f.Tag.Lookup("json"); ok {
			if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
				col.Attribute = name
			}
		}
		table.Columns = append(table.Columns, col)
		if col.Key {
			table.Keys = append(table.Keys, col)
		}
	}
	if len(table.Keys) == 0 {
		return Table{}, fmt.Errorf("registry: %s declares no key field", t)
	}

	actual, _ := tables.LoadOrStore(t, table)
	return actual.(Table), nil
}

// exportedFields lists exported fields, promoting fields of embedded
// non-pointer structs.
func exportedFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if len(f.Index) > 1 && crossesPointer(t, f.Index) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func crossesPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}
