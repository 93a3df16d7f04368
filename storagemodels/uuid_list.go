/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/go-openapi/strfmt"
)

// UUIDList is a list of identifiers stored as a JSON array in a single
// relational column.
type UUIDList []strfmt.UUID

// Value implements driver.Valuer.
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]strfmt.UUID(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *UUIDList) Scan(raw any) error {
	var data []byte
	switch v := raw.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into UUIDList", raw)
	}
	var ids []strfmt.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("decode UUIDList: %w", err)
	}
	*l = ids
	return nil
}
