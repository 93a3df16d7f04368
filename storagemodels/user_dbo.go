/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "github.com/go-openapi/strfmt"

// UserDbo is the persisted shape of models.User.
type UserDbo struct {
	// Required: true
	// Format: uuid
	Id strfmt.UUID `db:"id,key" json:"Id"`

	// Required: true
	Name string `db:"name" json:"Name"`

	// Required: true
	LastName string `db:"last_name" json:"LastName"`
}

func (UserDbo) TableName() string { return "users" }
