/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "github.com/kamileo242/EventManager/registry"

// DynamoDB single-table key layout. Macros name json attributes of the
// storage object.
func init() {
	registry.MustRegisterIndexMap[UserDbo](map[string]string{
		"PK": "USER#{Id}",
		"SK": "USER#{Id}",
	})
	registry.MustRegisterIndexMap[EventDbo](map[string]string{
		"PK": "EVENT#{Id}",
		"SK": "EVENT#{Id}",
	})
	registry.MustRegisterIndexMap[AddressDbo](map[string]string{
		"PK": "ADDRESS#{Id}",
		"SK": "ADDRESS#{Id}",
	})
	registry.MustRegisterIndexMap[UserEventDbo](map[string]string{
		"PK": "USER#{UserId}",
		"SK": "EVENT#{EventId}",
	})
}
