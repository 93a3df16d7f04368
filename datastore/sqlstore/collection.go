/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqlstore implements datastore.Collection over database/sql for
// SQLite and PostgreSQL. Rows map to storage objects through their db tags;
// predicates render to WHERE clauses.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

// Collection is a table of storage objects of type D.
type Collection[D any] struct {
	db    *DB
	table registry.Table
}

var _ datastore.Collection[struct{}] = (*Collection[struct{}])(nil)

// New binds storage object type D to its table in db.
func New[D any](db *DB) (*Collection[D], error) {
	table, err := registry.DescribeTable[D]()
	if err != nil {
		return nil, err
	}
	return &Collection[D]{db: db, table: table}, nil
}

func (c *Collection[D]) Table() registry.Table {
	return c.table
}

func (c *Collection[D]) Get(ctx context.Context, key datastore.Key) (*D, error) {
	clause, args, err := c.keyClause(key, 0)
	if err != nil {
		return nil, err
	}
	rows, err := c.query(ctx, clause, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Collection[D]) All(ctx context.Context) ([]D, error) {
	return c.query(ctx, "", nil)
}

func (c *Collection[D]) Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error) {
	clause, args, err := Where(c.db.Dialect, c.table, p)
	if err != nil {
		return nil, err
	}
	return c.query(ctx, clause, args)
}

func (c *Collection[D]) Begin(ctx context.Context) (datastore.Tx[D], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx[D]{ctx: ctx, c: c}, nil
}

func (c *Collection[D]) query(ctx context.Context, clause string, args []any) ([]D, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s", columnList(c.table), quote(c.table.Name))
	if clause != "" {
		stmt += " WHERE " + clause
	}
	// Key order is the store order, with or without a filter.
	stmt += " ORDER BY " + keyList(c.table)
	rows, err := c.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.table.Name, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]D, 0)
	for rows.Next() {
		var row D
		v := reflect.ValueOf(&row).Elem()
		dest := make([]any, len(c.table.Columns))
		for i, col := range c.table.Columns {
			dest[i] = v.FieldByIndex(col.Index).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table.Name, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", c.table.Name, err)
	}
	return out, nil
}

// keyClause renders "k1 = ?n AND k2 = ?n+1" with placeholders numbered
// after offset.
func (c *Collection[D]) keyClause(key datastore.Key, offset int) (string, []any, error) {
	if err := datastore.CheckKey(c.table, key); err != nil {
		return "", nil, err
	}
	parts := make([]string, len(key))
	args := make([]any, len(key))
	for i, col := range c.table.Keys {
		v, err := c.db.Dialect.bind(key[i])
		if err != nil {
			return "", nil, err
		}
		args[i] = v
		parts[i] = fmt.Sprintf("%s = %s", quote(col.Name), c.db.Dialect.placeholder(offset+i+1))
	}
	return strings.Join(parts, " AND "), args, nil
}

func (c *Collection[D]) values(row D) ([]any, error) {
	v := reflect.ValueOf(row)
	out := make([]any, len(c.table.Columns))
	for i, col := range c.table.Columns {
		bound, err := c.db.Dialect.bind(v.FieldByIndex(col.Index).Interface())
		if err != nil {
			return nil, fmt.Errorf("bind %s.%s: %w", c.table.Name, col.Name, err)
		}
		out[i] = bound
	}
	return out, nil
}

type stagedOp[D any] struct {
	kind string
	key  datastore.Key
	row  D
}

type tx[D any] struct {
	ctx  context.Context
	c    *Collection[D]
	ops  []stagedOp[D]
	done bool
}

func (t *tx[D]) Insert(row D) error {
	return t.stage(stagedOp[D]{kind: "insert", key: datastore.KeyOf(t.c.table, row), row: row})
}

func (t *tx[D]) Overwrite(key datastore.Key, row D) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	return t.stage(stagedOp[D]{kind: "overwrite", key: key, row: row})
}

func (t *tx[D]) Remove(key datastore.Key) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	return t.stage(stagedOp[D]{kind: "remove", key: key})
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

// Commit runs the staged statements in one database transaction.
func (t *tx[D]) Commit() (retErr error) {
	if t.done {
		return fmt.Errorf("%s: transaction already finished", t.c.table.Name)
	}
	t.done = true

	sqlTx, err := t.c.db.BeginTx(t.ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", t.c.table.Name, err)
	}
	defer func() {
		if retErr != nil {
			_ = sqlTx.Rollback()
		}
	}()

	for _, op := range t.ops {
		if err := t.apply(sqlTx, op); err != nil {
			return err
		}
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", t.c.table.Name, err)
	}
	return nil
}

func (t *tx[D]) apply(sqlTx *sql.Tx, op stagedOp[D]) error {
	c := t.c
	d := c.db.Dialect
	switch op.kind {
	case "insert":
		values, err := c.values(op.row)
		if err != nil {
			return err
		}
		holders := make([]string, len(values))
		for i := range values {
			holders[i] = d.placeholder(i + 1)
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quote(c.table.Name), columnList(c.table), strings.Join(holders, ", "))
		if _, err := sqlTx.ExecContext(t.ctx, stmt, values...); err != nil {
			if d.isDuplicate(err) {
				return errors.NewAlreadyExistsError(c.table.Name, op.key.String())
			}
			return fmt.Errorf("insert %s: %w", c.table.Name, err)
		}
	case "overwrite":
		values, err := c.values(op.row)
		if err != nil {
			return err
		}
		sets := make([]string, len(c.table.Columns))
		for i, col := range c.table.Columns {
			sets[i] = fmt.Sprintf("%s = %s", quote(col.Name), d.placeholder(i+1))
		}
		clause, keyArgs, err := c.keyClause(op.key, len(values))
		if err != nil {
			return err
		}
		stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s", quote(c.table.Name), strings.Join(sets, ", "), clause)
		res, err := sqlTx.ExecContext(t.ctx, stmt, append(values, keyArgs...)...)
		if err != nil {
			return fmt.Errorf("update %s: %w", c.table.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errors.NewNotFoundError(c.table.Name, op.key.String())
		}
	case "remove":
		clause, keyArgs, err := c.keyClause(op.key, 0)
		if err != nil {
			return err
		}
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s", quote(c.table.Name), clause)
		if _, err := sqlTx.ExecContext(t.ctx, stmt, keyArgs...); err != nil {
			return fmt.Errorf("delete %s: %w", c.table.Name, err)
		}
	}
	return nil
}
