/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/repository"
)

// UserEventService manages event participation.
type UserEventService struct {
	repo   repository.UserEventRepository
	users  *UserService
	events *EventService
	options
}

func NewUserEventService(
	repo repository.UserEventRepository,
	users repository.UserRepository,
	events repository.EventRepository,
	addresses repository.AddressRepository,
	opts ...Option,
) *UserEventService {
	return &UserEventService{
		repo:    repo,
		users:   NewUserService(users, opts...),
		events:  NewEventService(events, addresses, opts...),
		options: newOptions(opts),
	}
}

func participation(userId, eventId uuid.UUID) string {
	return fmt.Sprintf("%s|%s", userId, eventId)
}

func (s *UserEventService) Get(ctx context.Context, userId, eventId uuid.UUID) (*models.UserEvent, error) {
	ue, err := s.repo.Get(ctx, userId, eventId)
	if err != nil {
		return nil, err
	}
	if ue == nil {
		return nil, errors.NewNotFoundError("participation", participation(userId, eventId))
	}
	return ue, nil
}

func (s *UserEventService) GetAll(ctx context.Context) ([]models.UserEvent, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserEventService) Find(ctx context.Context, p predicate.Predicate[models.UserEvent]) ([]models.UserEvent, error) {
	s.log.Debug("find", zap.String("kind", "participation"), zap.Stringer("predicate", p))
	return s.repo.Find(ctx, p)
}

// Add records that a user takes part in an event. Both must exist.
// A zero JoinedAt is set to the current time.
func (s *UserEventService) Add(ctx context.Context, ue *models.UserEvent) error {
	if err := notNil(ue); err != nil {
		return err
	}
	if ue.UserId == uuid.Nil {
		return errors.NewValidationError("UserId", "is required")
	}
	if err := s.users.exists(ctx, ue.UserId); err != nil {
		return err
	}
	if ue.EventId == uuid.Nil {
		return errors.NewValidationError("EventId", "is required")
	}
	if err := s.events.exists(ctx, ue.EventId); err != nil {
		return err
	}
	if ue.JoinedAt.IsZero() {
		ue.JoinedAt = s.now().UTC()
	}

	if err := s.repo.Add(ctx, ue); err != nil {
		return err
	}
	s.log.Debug("participant added", zap.Stringer("user", ue.UserId), zap.Stringer("event", ue.EventId))
	return nil
}

// UpdateDepositPaid adds amount to the deposit of an existing participation.
func (s *UserEventService) UpdateDepositPaid(ctx context.Context, userId, eventId uuid.UUID, amount decimal.Decimal) error {
	if _, err := s.Get(ctx, userId, eventId); err != nil {
		return err
	}
	if err := s.repo.UpdateDepositPaid(ctx, userId, eventId, amount); err != nil {
		return err
	}
	s.log.Debug("deposit updated",
		zap.Stringer("user", userId),
		zap.Stringer("event", eventId),
		zap.Stringer("amount", amount))
	return nil
}

func (s *UserEventService) Delete(ctx context.Context, userId, eventId uuid.UUID) error {
	return s.repo.Delete(ctx, userId, eventId)
}
