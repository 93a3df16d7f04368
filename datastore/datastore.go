/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

// TimeLayout is the text form of stored date-times: UTC with a fixed-width
// nanosecond fraction, so lexical order matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Key holds the key field values of a row in storage representation, in
// the order of the table's key columns.
type Key []any

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "|")
}

// Collection is a queryable set of storage objects of type D.
type Collection[D any] interface {
	// Get returns the row with the given key, or nil and no error when absent.
	Get(ctx context.Context, key Key) (*D, error)

	// All returns every row in store order.
	All(ctx context.Context) ([]D, error)

	// Filter returns the rows matching p in store order.
	Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error)

	// Begin starts a unit of work. Staged changes become visible on Commit.
	Begin(ctx context.Context) (Tx[D], error)

	Table() registry.Table
}

// Tx stages writes against one collection.
type Tx[D any] interface {
	// Insert stages a new row. Commit fails with AlreadyExists when the key is taken.
	Insert(row D) error

	// Overwrite stages a full replacement of the row stored under key.
	// Commit fails with NotFound when there is no such row.
	Overwrite(key Key, row D) error

	// Remove stages a delete. Removing an absent row is not an error.
	Remove(key Key) error

	Commit() error
	Rollback() error
}

// Op names a collection operation in metrics and injected failures.
type Op string

const (
	OpGet    Op = "get"
	OpAll    Op = "all"
	OpFilter Op = "filter"
	OpBegin  Op = "begin"
	OpCommit Op = "commit"
)

// KeyOf reads the key field values of row.
func KeyOf[D any](table registry.Table, row D) Key {
	v := reflect.ValueOf(row)
	key := make(Key, len(table.Keys))
	for i, c := range table.Keys {
		key[i] = v.FieldByIndex(c.Index).Interface()
	}
	return key
}

// CheckKey verifies that key has one value per key column.
func CheckKey(table registry.Table, key Key) error {
	if len(key) != len(table.Keys) {
		return fmt.Errorf("%s: key has %d values, table has %d key columns", table.Name, len(key), len(table.Keys))
	}
	return nil
}
