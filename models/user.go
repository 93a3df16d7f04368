/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import "github.com/google/uuid"

// User is a person taking part in events.
type User struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	LastName string    `json:"lastName"`
}

func (u User) GetId() uuid.UUID { return u.Id }
