/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamileo242/EventManager/converter"
	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/internal/coerce"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/storagemodels"
)

// UserEventRepository serves participation records keyed by user and event.
type UserEventRepository interface {
	GetAll(ctx context.Context) ([]models.UserEvent, error)

	// Get returns nil and no error when the user does not take part in the event.
	Get(ctx context.Context, userId, eventId uuid.UUID) (*models.UserEvent, error)

	Find(ctx context.Context, p predicate.Predicate[models.UserEvent]) ([]models.UserEvent, error)

	Add(ctx context.Context, ue *models.UserEvent) error

	// UpdateDepositPaid adds amount to the deposit paid. It does nothing
	// when there is no such record.
	UpdateDepositPaid(ctx context.Context, userId, eventId uuid.UUID, amount decimal.Decimal) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, userId, eventId uuid.UUID) error
}

// UserEvents implements UserEventRepository.
type UserEvents struct {
	coll datastore.Collection[storagemodels.UserEventDbo]
	conv *converter.Converter
}

var _ UserEventRepository = (*UserEvents)(nil)

func NewUserEvents(coll datastore.Collection[storagemodels.UserEventDbo], conv *converter.Converter) *UserEvents {
	return &UserEvents{coll: coll, conv: conv}
}

func userEventKey(userId, eventId uuid.UUID) datastore.Key {
	return datastore.Key{strfmt.UUID(userId.String()), strfmt.UUID(eventId.String())}
}

func (r *UserEvents) GetAll(ctx context.Context) ([]models.UserEvent, error) {
	rows, err := r.coll.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.coll.Table().Name, err)
	}
	return converter.ConvertAll[models.UserEvent](r.conv, rows)
}

func (r *UserEvents) Get(ctx context.Context, userId, eventId uuid.UUID) (*models.UserEvent, error) {
	row, err := r.get(ctx, userId, eventId)
	if err != nil || row == nil {
		return nil, err
	}
	ue, err := converter.Convert[models.UserEvent](r.conv, row)
	if err != nil {
		return nil, err
	}
	return &ue, nil
}

func (r *UserEvents) get(ctx context.Context, userId, eventId uuid.UUID) (*storagemodels.UserEventDbo, error) {
	key := userEventKey(userId, eventId)
	row, err := r.coll.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", r.coll.Table().Name, key, err)
	}
	return row, nil
}

func (r *UserEvents) Find(ctx context.Context, p predicate.Predicate[models.UserEvent]) ([]models.UserEvent, error) {
	dp, err := predicate.Translate[models.UserEvent, storagemodels.UserEventDbo](p)
	if err != nil {
		return nil, err
	}
	rows, err := r.coll.Filter(ctx, dp)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.coll.Table().Name, err)
	}
	return converter.ConvertAll[models.UserEvent](r.conv, rows)
}

func (r *UserEvents) Add(ctx context.Context, ue *models.UserEvent) error {
	if ue == nil {
		return errors.NewValidationError("", "user event must not be nil")
	}
	row, err := converter.Convert[storagemodels.UserEventDbo](r.conv, ue)
	if err != nil {
		return err
	}
	return apply(ctx, r.coll, func(tx datastore.Tx[storagemodels.UserEventDbo]) error {
		return tx.Insert(row)
	})
}

func (r *UserEvents) UpdateDepositPaid(ctx context.Context, userId, eventId uuid.UUID, amount decimal.Decimal) error {
	row, err := r.get(ctx, userId, eventId)
	if err != nil || row == nil {
		return err
	}
	row.DepositPaid = coerce.Decimal(row.DepositPaid.Add(amount))
	return apply(ctx, r.coll, func(tx datastore.Tx[storagemodels.UserEventDbo]) error {
		return tx.Overwrite(userEventKey(userId, eventId), *row)
	})
}

func (r *UserEvents) Delete(ctx context.Context, userId, eventId uuid.UUID) error {
	row, err := r.get(ctx, userId, eventId)
	if err != nil || row == nil {
		return err
	}
	return apply(ctx, r.coll, func(tx datastore.Tx[storagemodels.UserEventDbo]) error {
		return tx.Remove(userEventKey(userId, eventId))
	})
}
