/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import "github.com/google/uuid"

// Address is a venue. EventsIds lists the events held there.
type Address struct {
	Id          uuid.UUID   `json:"id"`
	City        string      `json:"city"`
	Street      string      `json:"street"`
	HouseNumber string      `json:"houseNumber"`
	EventsIds   []uuid.UUID `json:"eventsIds,omitempty"`
}

func (a Address) GetId() uuid.UUID { return a.Id }
