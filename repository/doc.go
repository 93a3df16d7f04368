/*
Package repository implements CRUD and predicate search over domain models
backed by a datastore.Collection of storage objects.

Generic serves every entity with a single identifier. Predicates written
against the model are translated to the storage object before they reach the
collection, and rows are converted back with the converter:

	users, err := repository.New[models.User, storagemodels.UserDbo](collection, conv)
	kowalscy, err := users.Find(ctx, predicate.New[models.User]("u",
		predicate.Eq(predicate.Field("LastName"), predicate.Value("Kowalski"))))

GetByID returns nil and no error for a missing row. Update fails with a
NotFound error instead and leaves the collection unchanged. Delete of a
missing row is a no-op.

UserEvents serves the composite-keyed participation records.

Nothing in this package logs. Errors go to the caller.
*/
package repository
