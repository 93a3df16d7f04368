/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/repository"
)

// Option configures a service.
type Option func(*options)

type options struct {
	log   *zap.Logger
	newID func() uuid.UUID
	now   func() time.Time
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop(), newID: uuid.New, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithIDGenerator replaces uuid.New for identifier assignment.
func WithIDGenerator(f func() uuid.UUID) Option {
	return func(o *options) { o.newID = f }
}

// WithClock replaces time.Now for JoinedAt stamping.
func WithClock(f func() time.Time) Option {
	return func(o *options) { o.now = f }
}

// crud carries the operations every single-identifier service shares.
type crud[M models.Entity] struct {
	kind  string
	repo  repository.Repository[M]
	setID func(*M, uuid.UUID)
	options
}

func (s *crud[M]) GetByID(ctx context.Context, id uuid.UUID) (*M, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.NewNotFoundError(s.kind, id.String())
	}
	return m, nil
}

func (s *crud[M]) GetAll(ctx context.Context) ([]M, error) {
	return s.repo.GetAll(ctx)
}

func (s *crud[M]) Find(ctx context.Context, p predicate.Predicate[M]) ([]M, error) {
	s.log.Debug("find", zap.String("kind", s.kind), zap.Stringer("predicate", p))
	return s.repo.Find(ctx, p)
}

func (s *crud[M]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug("deleted", zap.String("kind", s.kind), zap.Stringer("id", id))
	return nil
}

func (s *crud[M]) add(ctx context.Context, m *M) error {
	id := s.newID()
	s.setID(m, id)
	if err := s.repo.Add(ctx, m); err != nil {
		return err
	}
	s.log.Debug("added", zap.String("kind", s.kind), zap.Stringer("id", id))
	return nil
}

// exists fails with NotFound when there is no entity id.
func (s *crud[M]) exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.GetByID(ctx, id)
	return err
}

// update replaces the stored entity id with m. Fields left unset on m are
// stored as unset.
func (s *crud[M]) update(ctx context.Context, id uuid.UUID, m *M) error {
	s.setID(m, id)
	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}
	s.log.Debug("updated", zap.String("kind", s.kind), zap.Stringer("id", id))
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, "is required")
	}
	return nil
}

func notNil[M any](m *M) error {
	if m == nil {
		return errors.NewValidationError("", "entity must not be nil")
	}
	return nil
}
