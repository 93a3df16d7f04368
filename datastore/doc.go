/*
Package datastore defines the queryable collection capability the repositories
are built on.

	type Collection[D any] interface {
	    Get(ctx context.Context, key Key) (*D, error)
	    All(ctx context.Context) ([]D, error)
	    Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error)
	    Begin(ctx context.Context) (Tx[D], error)
	    Table() registry.Table
	}

D is a storage object type. Its table description (name, columns, key
columns) comes from registry.DescribeTable.

Implementations:
  - memory: in-process collection, used by tests and as the default backend
  - sqlstore: database/sql collection for SQLite and PostgreSQL
  - bolt: bbolt key/value collection
  - ddb: DynamoDB single-table collection
  - metrics: Prometheus decorator over any other collection
*/
package datastore
