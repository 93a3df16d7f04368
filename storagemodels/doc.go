/*
Package storagemodels defines the storage objects persisted by EventManager.

Each storage object mirrors a domain model from package models field for
field by name, not by type:

	models.User                  storagemodels.UserDbo
	  Id       uuid.UUID           Id       strfmt.UUID        `db:"id,key"`
	  Name     string              Name     string             `db:"name"`
	  LastName string              LastName string             `db:"last_name"`

Identifiers are stored as text (strfmt.UUID), date-times as
strfmt.DateTime, and counts widen to int64. The converter coerces between
the two shapes; nothing outside the repositories reads these types.

Tags:
  - db:"column[,key]" names the column and marks key fields
  - json:"Name" is used by the key/value backends (bolt, DynamoDB)

TableName() gives the table or bucket name. DynamoDB index maps for the
single-table layout are registered in init, see indexmaps.go.
*/
package storagemodels
