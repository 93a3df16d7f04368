/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"
)

// UserEventDbo is the persisted shape of models.UserEvent. UserId and
// EventId form a composite key.
type UserEventDbo struct {
	// Required: true
	// Format: uuid
	UserId strfmt.UUID `db:"user_id,key" json:"UserId"`

	// Required: true
	// Format: uuid
	EventId strfmt.UUID `db:"event_id,key" json:"EventId"`

	DepositPaid decimal.Decimal `db:"deposit_paid" json:"DepositPaid"`

	// Format: date-time
	JoinedAt strfmt.DateTime `db:"joined_at" json:"JoinedAt"`
}

func (UserEventDbo) TableName() string { return "user_events" }
