/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package models holds the domain models application logic operates on.
package models

import "github.com/google/uuid"

// Entity is implemented by every model with a single surrogate identifier.
// The zero identifier (uuid.Nil) means "not assigned yet".
type Entity interface {
	GetId() uuid.UUID
}
