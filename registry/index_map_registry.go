/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"

	"github.com/kamileo242/EventManager/errors"
)

// IndexMap is the DynamoDB key layout of a storage object: item attribute
// to template, e.g. {"PK": "USER#{Id}", "SK": "USER#{Id}"}. Placeholders
// name json attributes of key columns.
type IndexMap map[string]string

var (
	indexMaps   = make(map[reflect.Type]IndexMap)
	indexMapsMu sync.RWMutex

	placeholder = regexp.MustCompile(`{([^}]+)}`)
)

// RegisterIndexMap checks idx against the table description of T and
// records a copy of it. PK and SK are required.
func RegisterIndexMap[T any](idx map[string]string) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	table, err := Describe(t)
	if err != nil {
		return err
	}

	keys := make(map[string]bool, len(table.Keys))
	for _, k := range table.Keys {
		keys[k.Attribute] = true
	}
	invalid := func(attr, reason string) error {
		return errors.NewConfigurationError(t.String(), "dynamodb item", attr, reason)
	}
	for _, required := range []string{"PK", "SK"} {
		if _, ok := idx[required]; !ok {
			return invalid(required, "no template")
		}
	}
	copied := make(IndexMap, len(idx))
	for attr, template := range idx {
		for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
			if !keys[m[1]] {
				return invalid(attr, fmt.Sprintf("%s is not a key attribute", m[1]))
			}
		}
		copied[attr] = template
	}

	indexMapsMu.Lock()
	defer indexMapsMu.Unlock()
	indexMaps[t] = copied
	return nil
}

// MustRegisterIndexMap is RegisterIndexMap for package initialisation.
func MustRegisterIndexMap[T any](idx map[string]string) {
	if err := RegisterIndexMap[T](idx); err != nil {
		panic(err)
	}
}

func GetIndexMap[T any]() (IndexMap, bool) {
	return IndexMapOf(reflect.TypeOf((*T)(nil)).Elem())
}

func IndexMapOf(t reflect.Type) (IndexMap, bool) {
	indexMapsMu.RLock()
	defer indexMapsMu.RUnlock()
	m, ok := indexMaps[t]
	return m, ok
}
