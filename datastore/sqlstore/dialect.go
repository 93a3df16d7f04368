/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/kamileo242/EventManager/datastore"
)

// Dialect holds what differs between the supported SQL engines.
type Dialect struct {
	Name   string
	Driver string
	// Schema is the embedded DDL file applied by Migrate.
	Schema string

	placeholder func(n int) string
	equal       string
	notEqual    string
	position    string
	text        string
	timeValue   func(time.Time) any
	isDuplicate func(error) bool
}

// SQLite uses the pure Go modernc.org/sqlite driver.
var SQLite = Dialect{
	Name:        "sqlite",
	Driver:      "sqlite",
	Schema:      "schema/sqlite.sql",
	placeholder: func(n int) string { return fmt.Sprintf("?%d", n) },
	equal:       "%s IS %s",
	notEqual:    "%s IS NOT %s",
	position:    "instr(%s, %s)",
	text:        "%s",
	timeValue:   func(t time.Time) any { return datastore.FormatTime(t) },
	isDuplicate: func(err error) bool {
		var e *sqlite.Error
		if !errors.As(err, &e) {
			return false
		}
		return e.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || e.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	},
}

// Postgres uses the pgx database/sql driver.
var Postgres = Dialect{
	Name:        "postgres",
	Driver:      "pgx",
	Schema:      "schema/postgres.sql",
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	equal:       "%s IS NOT DISTINCT FROM %s",
	notEqual:    "%s IS DISTINCT FROM %s",
	position:    "strpos(%s, %s)",
	text:        "CAST(%s AS TEXT)",
	timeValue:   func(t time.Time) any { return datastore.FormatTime(t) },
	isDuplicate: func(err error) bool {
		var e *pgconn.PgError
		return errors.As(err, &e) && e.Code == "23505"
	},
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("sqlstore: unknown dialect %q", name)
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// bind turns a storage value into a driver argument. Date-times are
// normalised to UTC so that text columns order correctly.
func (d Dialect) bind(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case strfmt.DateTime:
		return d.timeValue(time.Time(x)), nil
	case *strfmt.DateTime:
		if x == nil {
			return nil, nil
		}
		return d.timeValue(time.Time(*x)), nil
	case time.Time:
		return d.timeValue(x), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		if _, ok := v.(driver.Valuer); !ok {
			return d.bind(rv.Elem().Interface())
		}
	}
	if valuer, ok := v.(driver.Valuer); ok {
		return valuer.Value()
	}
	return v, nil
}
