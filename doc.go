/*
Package eventmanager wires the EventManager persistence layer together.

The layer maps domain models (package models) to storage objects (package
storagemodels) and back:
  - converter copies same-named fields between the two shapes with coercion
  - predicate translates filters written against a model into filters on
    its storage object
  - repository offers CRUD and predicate search on top of a
    datastore.Collection

Collections are provided by the memory, sqlstore (SQLite, PostgreSQL),
bolt and ddb (DynamoDB) backends, optionally instrumented with Prometheus
metrics.

Basic Usage:

	cfg, _ := config.Load("")
	store, err := eventmanager.Open(ctx, cfg, eventmanager.WithLogger(log))
	if err != nil {
		return err
	}
	defer store.Close()

	svc := store.Services(service.WithLogger(log))
	user := &models.User{Name: "Adam", LastName: "Kowalski"}
	err = svc.Users.Add(ctx, user)
	found, err := store.Users.Find(ctx, predicate.New[models.User]("u",
		predicate.Eq(predicate.Field("LastName"), predicate.Value("Kowalski"))))

The cmd/eventmanager command exposes the services on the command line.
*/
package eventmanager
