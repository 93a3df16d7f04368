/*
Package registry holds the startup-time configuration of the persistence layer.

Mappings:
Declares which domain model / storage object pairs the converter and the
predicate translator may handle. Registration computes a field plan per
direction and rejects same-named fields whose types cannot be coerced:

	r := registry.New()
	registry.MustRegister[models.User, storagemodels.UserDbo](r)
	r.Seal()

After Seal the registry is read-only and lookups are lock free.

Tables:
Describes storage objects from their db/json tags and TableName method:

	table, err := registry.DescribeTable[storagemodels.UserDbo]()
	// table.Name == "users", table.Keys[0].Name == "id"

Index maps:
Associates storage object types with DynamoDB single-table key templates:

	registry.MustRegisterIndexMap[UserEventDbo](map[string]string{
	    "PK": "USER#{UserId}",
	    "SK": "EVENT#{EventId}",
	})

Index maps are registered from init functions, mappings from the bootstrap
code; both happen before any repository call.
*/
package registry
