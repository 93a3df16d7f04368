/*
Package service holds the application operations over the repositories.

Services validate input, assign identifiers on Add, and turn a missing
entity into a NotFound error where the repositories report it as a nil
value. Query objects build the search predicates the CLI passes to Find.

	users := service.NewUserService(repos.Users, service.WithLogger(log))
	err := users.Add(ctx, &models.User{Name: "Adam", LastName: "Kowalski"})
	found, err := users.Find(ctx, service.UserQuery{LastName: "Kow"}.Predicate())
*/
package service
