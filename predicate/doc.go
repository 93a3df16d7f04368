/*
Package predicate models boolean filters over a single value as an explicit
expression tree, and rewrites them between types.

A predicate has one free variable and a body:

	p := predicate.New[models.User]("u", predicate.And(
	    predicate.Eq(predicate.Field("LastName"), predicate.Value("Kowalski")),
	    predicate.Contains(predicate.Field("Name"), predicate.Value("Ad")),
	))

Translate rewrites a predicate on a domain model into the equivalent
predicate on its storage object, matching member accesses by field name:

	q, err := predicate.Translate[models.User, storagemodels.UserDbo](p)

The rewrite keeps the tree shape and operand order. A member missing on
either side yields an errors.ConfigurationError.

Eval runs a predicate in memory. Parse builds one from text:

	p, err := predicate.Parse[models.User](`LastName == "Kowalski" && Name contains "Ad"`)
*/
package predicate
