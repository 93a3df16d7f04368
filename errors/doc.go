/*
Package errors provides semantic error types for the EventManager persistence layer.

The package defines the error taxonomy shared by the converter, the predicate
translator, the repositories and the services. Each kind has a sentinel that
the typed errors unwrap to, so errors.Is and the Is helpers classify
wrapped errors too.

Common Errors:

	var (
	    ErrNotFound      = errors.New("not found")
	    ErrAlreadyExists = errors.New("already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrConfiguration = errors.New("missing mapping")
	)

Usage:

	err := repo.Update(ctx, &user)
	if errors.IsNotFound(err) {
	    // no row with user.Id
	}

	_, err = predicate.Translate[models.User, storagemodels.UserDbo](p)
	if errors.IsConfigurationError(err) {
	    // a field used by p has no counterpart on the storage object
	}

Storage failures are wrapped with %w and keep their original cause.
*/
package errors
