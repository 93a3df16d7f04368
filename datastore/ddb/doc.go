/*
Package ddb provides a DynamoDB implementation of datastore.Collection.

All storage object types share one table (single-table design). Each item
carries:
  - PK and SK, expanded from the index map registered for the type
  - EntityType, the logical table name of the type
  - one attribute per column, named after the column's json tag

Macro Expansion:
Keys are built from templates whose macros are replaced with attribute
values:

	registry.MustRegisterIndexMap[UserEventDbo](map[string]string{
	    "PK": "USER#{UserId}",   // Becomes "USER#5f0c..."
	    "SK": "EVENT#{EventId}",
	})

Filtering:
Filter scans the table with a FilterExpression rendered from the predicate
and the EntityType guard. Throttled scan pages are retried with backoff.
Predicates without a FilterExpression form fall back to in-memory
evaluation of the entity type's items.

Writes:
A transaction commits as one TransactWriteItems call. Inserts are guarded
with attribute_not_exists(PK), overwrites with attribute_exists(PK).
*/
package ddb
