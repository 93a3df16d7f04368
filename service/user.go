/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/repository"
)

type UserService struct {
	crud[models.User]
}

func NewUserService(repo repository.UserRepository, opts ...Option) *UserService {
	return &UserService{crud[models.User]{
		kind:    "user",
		repo:    repo,
		setID:   func(u *models.User, id uuid.UUID) { u.Id = id },
		options: newOptions(opts),
	}}
}

// Add validates u and stores it under a new identifier, written back to u.
func (s *UserService) Add(ctx context.Context, u *models.User) error {
	if err := s.validate(u); err != nil {
		return err
	}
	return s.add(ctx, u)
}

// Update replaces user id with u.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, u *models.User) error {
	if err := notNil(u); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	return s.update(ctx, id, u)
}

func (s *UserService) validate(u *models.User) error {
	if err := notNil(u); err != nil {
		return err
	}
	if err := required("Name", u.Name); err != nil {
		return err
	}
	return required("LastName", u.LastName)
}
