/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a scheduled gathering, optionally held at an Address.
type Event struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	AddressId       *uuid.UUID `json:"addressId,omitempty"`
	MaxParticipants *int       `json:"maxParticipants,omitempty"`

	// Cost is the entry fee.
	Cost *decimal.Decimal `json:"cost,omitempty"`
}

func (e Event) GetId() uuid.UUID { return e.Id }
