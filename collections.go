/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package eventmanager

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/registry"
)

// Collections holds at most one collection per storage object type.
type Collections struct {
	mu     sync.RWMutex
	byType map[reflect.Type]any
}

// NewCollections creates an empty set of collections.
func NewCollections() *Collections {
	return &Collections{
		byType: make(map[reflect.Type]any),
	}
}

func typeOf[D any]() reflect.Type {
	return reflect.TypeOf((*D)(nil)).Elem()
}

// RegisterCollection adds the collection for storage type D.
func RegisterCollection[D any](c *Collections, coll datastore.Collection[D]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	typ := typeOf[D]()
	if _, exists := c.byType[typ]; exists {
		return fmt.Errorf("collection for %s already registered", typ)
	}
	c.byType[typ] = coll
	return nil
}

// GetCollection returns the collection for storage type D.
func GetCollection[D any](c *Collections) (datastore.Collection[D], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	typ := typeOf[D]()
	coll, exists := c.byType[typ]
	if !exists {
		return nil, fmt.Errorf("collection for %s not found", typ)
	}
	return coll.(datastore.Collection[D]), nil
}

// RemoveCollection drops the collection for storage type D.
func RemoveCollection[D any](c *Collections) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	typ := typeOf[D]()
	if _, exists := c.byType[typ]; !exists {
		return fmt.Errorf("collection for %s not found", typ)
	}
	delete(c.byType, typ)
	return nil
}

// Tables lists the table names of the registered collections, sorted.
func (c *Collections) Tables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byType))
	for _, coll := range c.byType {
		names = append(names, coll.(interface{ Table() registry.Table }).Table().Name)
	}
	sort.Strings(names)
	return names
}
