/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-process implementation of datastore.Collection.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

// Collection keeps rows in insertion order. Writes go through Tx and are
// applied atomically on Commit.
type Collection[D any] struct {
	mu       sync.RWMutex
	table    registry.Table
	rows     []D
	index    map[string]int
	failures map[datastore.Op]error
}

var _ datastore.Collection[struct{}] = (*Collection[struct{}])(nil)

// New creates an empty collection for storage object type D.
func New[D any]() (*Collection[D], error) {
	table, err := registry.DescribeTable[D]()
	if err != nil {
		return nil, err
	}
	return &Collection[D]{
		table:    table,
		index:    make(map[string]int),
		failures: make(map[datastore.Op]error),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew[D any]() *Collection[D] {
	c, err := New[D]()
	if err != nil {
		panic(err)
	}
	return c
}

// WithError makes every later op call return err. A nil err clears it.
func (c *Collection[D]) WithError(op datastore.Op, err error) *Collection[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, op)
	} else {
		c.failures[op] = err
	}
	return c
}

// Len returns the number of stored rows.
func (c *Collection[D]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

func (c *Collection[D]) Table() registry.Table {
	return c.table
}

func (c *Collection[D]) Get(ctx context.Context, key datastore.Key) (*D, error) {
	if err := c.check(ctx, datastore.OpGet); err != nil {
		return nil, err
	}
	if err := datastore.CheckKey(c.table, key); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[key.String()]
	if !ok {
		return nil, nil
	}
	row := c.rows[i]
	return &row, nil
}

func (c *Collection[D]) All(ctx context.Context) ([]D, error) {
	if err := c.check(ctx, datastore.OpAll); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]D, len(c.rows))
	copy(out, c.rows)
	return out, nil
}

func (c *Collection[D]) Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error) {
	if err := c.check(ctx, datastore.OpFilter); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]D, 0)
	for _, row := range c.rows {
		ok, err := p.Match(row)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", c.table.Name, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c *Collection[D]) Begin(ctx context.Context) (datastore.Tx[D], error) {
	if err := c.check(ctx, datastore.OpBegin); err != nil {
		return nil, err
	}
	return &tx[D]{c: c}, nil
}

func (c *Collection[D]) check(ctx context.Context, op datastore.Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failures[op]
}

type opKind int

const (
	insertOp opKind = iota
	overwriteOp
	removeOp
)

type stagedOp[D any] struct {
	kind opKind
	key  datastore.Key
	row  D
}

type tx[D any] struct {
	c    *Collection[D]
	ops  []stagedOp[D]
	done bool
}

func (t *tx[D]) Insert(row D) error {
	return t.stage(stagedOp[D]{kind: insertOp, key: datastore.KeyOf(t.c.table, row), row: row})
}

func (t *tx[D]) Overwrite(key datastore.Key, row D) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	return t.stage(stagedOp[D]{kind: overwriteOp, key: key, row: row})
}

func (t *tx[D]) Remove(key datastore.Key) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	return t.stage(stagedOp[D]{kind: removeOp, key: key})
}

func (t *tx[D]) stage(op stagedOp[D]) error {
	if t.done {
		return fmt.Errorf("%s: transaction already finished", t.c.table.Name)
	}
	t.ops = append(t.ops, op)
	return nil
}

func (t *tx[D]) Rollback() error {
	t.done = true
	t.ops = nil
	return nil
}

// Commit applies the staged ops to a copy of the collection and swaps it
// in only when every op succeeded.
func (t *tx[D]) Commit() error {
	if t.done {
		return fmt.Errorf("%s: transaction already finished", t.c.table.Name)
	}
	t.done = true
	c := t.c
	if err := c.check(context.Background(), datastore.OpCommit); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]D, len(c.rows))
	copy(rows, c.rows)
	index := make(map[string]int, len(c.index))
	for k, v := range c.index {
		index[k] = v
	}
	removed := false

	for _, op := range t.ops {
		k := op.key.String()
		i, exists := index[k]
		switch op.kind {
		case insertOp:
			if exists {
				return errors.NewAlreadyExistsError(c.table.Name, k)
			}
			index[k] = len(rows)
			rows = append(rows, op.row)
		case overwriteOp:
			if !exists {
				return errors.NewNotFoundError(c.table.Name, k)
			}
			if nk := datastore.KeyOf(c.table, op.row).String(); nk != k {
				return fmt.Errorf("%s: overwrite cannot change key %s to %s", c.table.Name, k, nk)
			}
			rows[i] = op.row
		case removeOp:
			if exists {
				delete(index, k)
				removed = true
			}
		}
	}

	if removed {
		rows, index = compact(rows, index)
	}
	c.rows, c.index = rows, index
	return nil
}

// compact drops rows no longer referenced by the index, keeping order.
func compact[D any](rows []D, index map[string]int) ([]D, map[string]int) {
	keys := make([]string, len(rows))
	live := make([]bool, len(rows))
	for k, i := range index {
		keys[i] = k
		live[i] = true
	}
	out := make([]D, 0, len(index))
	newIndex := make(map[string]int, len(index))
	for i, row := range rows {
		if !live[i] {
			continue
		}
		newIndex[keys[i]] = len(out)
		out = append(out, row)
	}
	return out, newIndex
}
