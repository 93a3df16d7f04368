/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/repository"
)

type EventService struct {
	crud[models.Event]
	addresses *AddressService
}

func NewEventService(repo repository.EventRepository, addresses repository.AddressRepository, opts ...Option) *EventService {
	o := newOptions(opts)
	return &EventService{
		crud: crud[models.Event]{
			kind:    "event",
			repo:    repo,
			setID:   func(e *models.Event, id uuid.UUID) { e.Id = id },
			options: o,
		},
		addresses: NewAddressService(addresses, opts...),
	}
}

// Add validates e, checks that its address exists and stores it under a
// new identifier.
func (s *EventService) Add(ctx context.Context, e *models.Event) error {
	if err := notNil(e); err != nil {
		return err
	}
	if err := required("Name", e.Name); err != nil {
		return err
	}
	if err := s.validateAddress(ctx, e.AddressId); err != nil {
		return err
	}
	return s.add(ctx, e)
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, e *models.Event) error {
	if err := notNil(e); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	if err := s.validateAddress(ctx, e.AddressId); err != nil {
		return err
	}
	return s.update(ctx, id, e)
}

// AddAddress places event eventId at address addressId and records the
// event on the address.
func (s *EventService) AddAddress(ctx context.Context, eventId, addressId uuid.UUID) error {
	e, err := s.GetByID(ctx, eventId)
	if err != nil {
		return err
	}
	a, err := s.addresses.GetByID(ctx, addressId)
	if err != nil {
		return err
	}

	e.AddressId = &addressId
	if err := s.update(ctx, eventId, e); err != nil {
		return err
	}
	if !slices.Contains(a.EventsIds, eventId) {
		a.EventsIds = append(a.EventsIds, eventId)
		if err := s.addresses.update(ctx, addressId, a); err != nil {
			return err
		}
	}
	s.log.Debug("address assigned", zap.Stringer("event", eventId), zap.Stringer("address", addressId))
	return nil
}

func (s *EventService) validateAddress(ctx context.Context, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return s.addresses.exists(ctx, *id)
}
