/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/kamileo242/EventManager/converter"
	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

// Repository is CRUD plus predicate search over one entity kind.
type Repository[M models.Entity] interface {
	// GetByID returns nil and no error when there is no such entity.
	GetByID(ctx context.Context, id uuid.UUID) (*M, error)

	// GetAll returns every entity in store order.
	GetAll(ctx context.Context) ([]M, error)

	// Find returns the entities matching p. No match is an empty slice.
	Find(ctx context.Context, p predicate.Predicate[M]) ([]M, error)

	// Add persists m under the identifier it already carries.
	Add(ctx context.Context, m *M) error

	// Update replaces every field of the stored entity with the fields of m.
	Update(ctx context.Context, m *M) error

	// Delete removes the entity. Deleting a missing entity is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Repository[models.User]
}

type EventRepository interface {
	Repository[models.Event]
}

type AddressRepository interface {
	Repository[models.Address]
}

// Generic implements Repository for model M stored as D.
type Generic[M models.Entity, D any] struct {
	coll    datastore.Collection[D]
	conv    *converter.Converter
	keyType reflect.Type
}

var (
	_ UserRepository    = (*Generic[models.User, struct{}])(nil)
	_ EventRepository   = (*Generic[models.Event, struct{}])(nil)
	_ AddressRepository = (*Generic[models.Address, struct{}])(nil)
)

// New binds a repository to coll. Both directions of the M/D mapping must
// be registered with the converter's registry and D must have a single key
// column.
func New[M models.Entity, D any](coll datastore.Collection[D], conv *converter.Converter) (*Generic[M, D], error) {
	m := reflect.TypeOf((*M)(nil)).Elem()
	d := reflect.TypeOf((*D)(nil)).Elem()
	for _, pair := range [][2]reflect.Type{{m, d}, {d, m}} {
		if _, ok := conv.Registry().Lookup(pair[0], pair[1]); !ok {
			return nil, errors.NewConfigurationError(pair[0].String(), pair[1].String(), "", "mapping not registered")
		}
	}

	table := coll.Table()
	if len(table.Keys) != 1 {
		return nil, errors.NewConfigurationError(m.String(), d.String(), "",
			fmt.Sprintf("table %s has %d key columns, want 1", table.Name, len(table.Keys)))
	}
	return &Generic[M, D]{coll: coll, conv: conv, keyType: table.Keys[0].Type}, nil
}

// MustNew is like New but panics on error.
func MustNew[M models.Entity, D any](coll datastore.Collection[D], conv *converter.Converter) *Generic[M, D] {
	r, err := New[M, D](coll, conv)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Generic[M, D]) table() registry.Table {
	return r.coll.Table()
}

// key coerces a model identifier to the storage key representation.
func (r *Generic[M, D]) key(id uuid.UUID) (datastore.Key, error) {
	v, err := converter.Coerce(id, r.keyType)
	if err != nil {
		return nil, fmt.Errorf("%s key %s: %w", r.table().Name, id, err)
	}
	return datastore.Key{v}, nil
}

func (r *Generic[M, D]) GetByID(ctx context.Context, id uuid.UUID) (*M, error) {
	row, err := r.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	m, err := converter.Convert[M](r.conv, row)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Generic[M, D]) get(ctx context.Context, id uuid.UUID) (*D, error) {
	key, err := r.key(id)
	if err != nil {
		return nil, err
	}
	row, err := r.coll.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", r.table().Name, id, err)
	}
	return row, nil
}

func (r *Generic[M, D]) GetAll(ctx context.Context) ([]M, error) {
	rows, err := r.coll.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table().Name, err)
	}
	return converter.ConvertAll[M](r.conv, rows)
}

func (r *Generic[M, D]) Find(ctx context.Context, p predicate.Predicate[M]) ([]M, error) {
	dp, err := predicate.Translate[M, D](p)
	if err != nil {
		return nil, err
	}
	rows, err := r.coll.Filter(ctx, dp)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.table().Name, err)
	}
	return converter.ConvertAll[M](r.conv, rows)
}

func (r *Generic[M, D]) Add(ctx context.Context, m *M) error {
	if m == nil {
		return errors.NewValidationError("", "entity must not be nil")
	}
	row, err := converter.Convert[D](r.conv, m)
	if err != nil {
		return err
	}
	return apply(ctx, r.coll, func(tx datastore.Tx[D]) error {
		return tx.Insert(row)
	})
}

func (r *Generic[M, D]) Update(ctx context.Context, m *M) error {
	if m == nil {
		return errors.NewValidationError("", "entity must not be nil")
	}
	id := (*m).GetId()
	existing, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewNotFoundError(r.table().Name, id.String())
	}

	row, err := converter.Convert[D](r.conv, m)
	if err != nil {
		return err
	}
	key, err := r.key(id)
	if err != nil {
		return err
	}
	return apply(ctx, r.coll, func(tx datastore.Tx[D]) error {
		return tx.Overwrite(key, row)
	})
}

func (r *Generic[M, D]) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := r.get(ctx, id)
	if err != nil || existing == nil {
		return err
	}
	key, err := r.key(id)
	if err != nil {
		return err
	}
	return apply(ctx, r.coll, func(tx datastore.Tx[D]) error {
		return tx.Remove(key)
	})
}

// apply runs stage in a transaction and commits it. The transaction is
// rolled back when staging fails.
func apply[D any](ctx context.Context, coll datastore.Collection[D], stage func(tx datastore.Tx[D]) error) error {
	tx, err := coll.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", coll.Table().Name, err)
	}
	if err := stage(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", coll.Table().Name, err)
	}
	return nil
}
