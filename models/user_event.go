/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserEvent records a user's participation in an event. UserId and EventId
// together form its key; it has no surrogate identifier and therefore does
// not implement Entity.
type UserEvent struct {
	UserId      uuid.UUID       `json:"userId"`
	EventId     uuid.UUID       `json:"eventId"`
	DepositPaid decimal.Decimal `json:"depositPaid"`
	JoinedAt    time.Time       `json:"joinedAt"`
}
