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

type AddressService struct {
	crud[models.Address]
}

func NewAddressService(repo repository.AddressRepository, opts ...Option) *AddressService {
	return &AddressService{crud[models.Address]{
		kind:    "address",
		repo:    repo,
		setID:   func(a *models.Address, id uuid.UUID) { a.Id = id },
		options: newOptions(opts),
	}}
}

func (s *AddressService) Add(ctx context.Context, a *models.Address) error {
	if err := notNil(a); err != nil {
		return err
	}
	for _, f := range []struct{ name, value string }{
		{"City", a.City},
		{"Street", a.Street},
		{"HouseNumber", a.HouseNumber},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	return s.add(ctx, a)
}

func (s *AddressService) Update(ctx context.Context, id uuid.UUID, a *models.Address) error {
	if err := notNil(a); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	return s.update(ctx, id, a)
}
