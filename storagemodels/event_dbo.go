/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"
)

// EventDbo is the persisted shape of models.Event.
type EventDbo struct {
	// Required: true
	// Format: uuid
	Id strfmt.UUID `db:"id,key" json:"Id"`

	// Required: true
	Name string `db:"name" json:"Name"`

	Description string `db:"description" json:"Description,omitempty"`

	// Format: date-time
	StartDate *strfmt.DateTime `db:"start_date" json:"StartDate,omitempty"`

	// Format: date-time
	EndDate *strfmt.DateTime `db:"end_date" json:"EndDate,omitempty"`

	// Format: uuid
	AddressId *strfmt.UUID `db:"address_id" json:"AddressId,omitempty"`

	MaxParticipants *int64 `db:"max_participants" json:"MaxParticipants,omitempty"`

	Cost *decimal.Decimal `db:"cost" json:"Cost,omitempty"`
}

func (EventDbo) TableName() string { return "events" }
