/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "github.com/go-openapi/strfmt"

// AddressDbo is the persisted shape of models.Address.
type AddressDbo struct {
	// Required: true
	// Format: uuid
	Id strfmt.UUID `db:"id,key" json:"Id"`

	City        string `db:"city" json:"City"`
	Street      string `db:"street" json:"Street"`
	HouseNumber string `db:"house_number" json:"HouseNumber"`

	EventsIds UUIDList `db:"events_ids" json:"EventsIds,omitempty"`
}

func (AddressDbo) TableName() string { return "addresses" }
