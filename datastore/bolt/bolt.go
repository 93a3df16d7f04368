/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package bolt implements datastore.Collection on a bbolt file. Each table
// is a bucket; rows are JSON documents under their key string, so store
// order is key order.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"
	bolt "go.etcd.io/bbolt"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

const fileMode = 0o600

// Open opens (creating if needed) the bbolt file at path.
func Open(path string) (*bolt.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	return db, nil
}

// Collection stores rows of type D in the bucket named after its table.
type Collection[D any] struct {
	db    *bolt.DB
	table registry.Table
}

var _ datastore.Collection[struct{}] = (*Collection[struct{}])(nil)

// New binds storage object type D to its bucket, creating the bucket.
func New[D any](db *bolt.DB) (*Collection[D], error) {
	table, err := registry.DescribeTable[D]()
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(table.Name))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", table.Name, err)
	}
	return &Collection[D]{db: db, table: table}, nil
}

func (c *Collection[D]) Table() registry.Table {
	return c.table
}

func (c *Collection[D]) Get(ctx context.Context, key datastore.Key) (*D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := datastore.CheckKey(c.table, key); err != nil {
		return nil, err
	}
	var out *D
	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(c.table.Name)).Get([]byte(key.String()))
		if data == nil {
			return nil
		}
		var row D
		if err := json.Unmarshal(data, &row); err != nil {
			return fmt.Errorf("decode %s %s: %w", c.table.Name, key, err)
		}
		out = &row
		return nil
	})
	return out, err
}

func (c *Collection[D]) All(ctx context.Context) ([]D, error) {
	return c.scan(ctx, func(D) (bool, error) { return true, nil })
}

func (c *Collection[D]) Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error) {
	return c.scan(ctx, p.Match)
}

func (c *Collection[D]) scan(ctx context.Context, keep func(D) (bool, error)) ([]D, error) {
	out := make([]D, 0)
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(c.table.Name)).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var row D
			if err := json.Unmarshal(v, &row); err != nil {
				return fmt.Errorf("decode %s %s: %w", c.table.Name, k, err)
			}
			ok, err := keep(row)
			if err != nil {
				return fmt.Errorf("filter %s: %w", c.table.Name, err)
			}
			if ok {
				out = append(out, row)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection[D]) Begin(ctx context.Context) (datastore.Tx[D], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx[D]{c: c}, nil
}

type tx[D any] struct {
	c    *Collection[D]
	ops  []func(b *bolt.Bucket) error
	done bool
}

func (t *tx[D]) Insert(row D) error {
	key := datastore.KeyOf(t.c.table, row).String()
	return t.stage(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) != nil {
			return errors.NewAlreadyExistsError(t.c.table.Name, key)
		}
		return t.put(b, key, row)
	})
}

func (t *tx[D]) Overwrite(key datastore.Key, row D) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	k := key.String()
	return t.stage(func(b *bolt.Bucket) error {
		if b.Get([]byte(k)) == nil {
			return errors.NewNotFoundError(t.c.table.Name, k)
		}
		if nk := datastore.KeyOf(t.c.table, row).String(); nk != k {
			return fmt.Errorf("%s: overwrite cannot change key %s to %s", t.c.table.Name, k, nk)
		}
		return t.put(b, k, row)
	})
}

func (t *tx[D]) Remove(key datastore.Key) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	k := key.String()
	return t.stage(func(b *bolt.Bucket) error {
		return b.Delete([]byte(k))
	})
}

func (t *tx[D]) put(b *bolt.Bucket, key string, row D) error {
	data, err := json.Marshal(document(t.c.table, row))
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", t.c.table.Name, key, err)
	}
	return b.Put([]byte(key), data)
}

// document maps column attributes to row values, with date-times in
// datastore.TimeLayout.
func document(table registry.Table, row any) map[string]any {
	v := reflect.ValueOf(row)
	doc := make(map[string]any, len(table.Columns))
	for _, col := range table.Columns {
		val := v.FieldByIndex(col.Index).Interface()
		switch x := val.(type) {
		case strfmt.DateTime:
			val = datastore.FormatTime(time.Time(x))
		case *strfmt.DateTime:
			if x != nil {
				val = datastore.FormatTime(time.Time(*x))
			}
		}
		doc[col.Attribute] = val
	}
	return doc
}

func (t *tx[D]) stage(op func(b *bolt.Bucket) error) error {
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

// Commit applies the staged ops in one bbolt write transaction; any failing
// op rolls back all of them.
func (t *tx[D]) Commit() error {
	if t.done {
		return fmt.Errorf("%s: transaction already finished", t.c.table.Name)
	}
	t.done = true
	return t.c.db.Update(func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(t.c.table.Name))
		for _, op := range t.ops {
			if err := op(b); err != nil {
				return err
			}
		}
		return nil
	})
}
