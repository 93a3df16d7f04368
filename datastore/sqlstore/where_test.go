/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
	"github.com/kamileo242/EventManager/storagemodels"
)

func eventTable(t *testing.T) registry.Table {
	t.Helper()
	table, err := registry.DescribeTable[storagemodels.EventDbo]()
	require.NoError(t, err)
	return table
}

func TestWhere_SQLite(t *testing.T) {
	table := eventTable(t)
	start := time.Date(2025, 5, 1, 20, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name   string
		body   predicate.Node
		clause string
		args   []any
	}{
		{
			name:   "equality",
			body:   predicate.Eq(predicate.Field("Name"), predicate.Value("Jazz")),
			clause: `("name" IS ?1)`,
			args:   []any{"Jazz"},
		},
		{
			name:   "inequality keeps nulls",
			body:   predicate.Ne(predicate.Field("AddressId"), predicate.Value(id)),
			clause: `("address_id" IS NOT ?1)`,
			args:   []any{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		},
		{
			name:   "null literal",
			body:   predicate.Eq(predicate.Field("EndDate"), predicate.Value(nil)),
			clause: `("end_date" IS NULL)`,
		},
		{
			name:   "ordering wrapped and time in utc",
			body:   predicate.Ge(predicate.Field("StartDate"), predicate.Value(start)),
			clause: `(("start_date" >= ?1) IS TRUE)`,
			args:   []any{"2025-05-01T18:00:00.000000000Z"},
		},
		{
			name:   "literal on the left",
			body:   predicate.Lt(predicate.Value(10), predicate.Field("MaxParticipants")),
			clause: `((?1 < "max_participants") IS TRUE)`,
			args:   []any{int64(10)},
		},
		{
			name: "logic and negation",
			body: predicate.Negate(predicate.Or(
				predicate.Contains(predicate.Field("Name"), predicate.Value("az")),
				predicate.HasValueOf(predicate.Field("Cost")),
			)),
			clause: `NOT (((instr("name", ?1) > 0) IS TRUE) OR ("cost" IS NOT NULL))`,
			args:   []any{"az"},
		},
		{
			name:   "starts and ends",
			body:   predicate.And(predicate.StartsWith(predicate.Field("Name"), predicate.Value("J")), predicate.EndsWith(predicate.Field("Name"), predicate.Value("z"))),
			clause: `(((instr("name", ?1) = 1) IS TRUE) AND ((substr("name", length("name") - length(?2) + 1) = ?2) IS TRUE))`,
			args:   []any{"J", "z"},
		},
		{
			name:   "constant folding",
			body:   predicate.And(predicate.Eq(predicate.Value(1), predicate.Value(1.0)), predicate.Lt(predicate.Field("Cost"), predicate.Value(nil))),
			clause: `(1=1 AND 1=0)`,
		},
		{
			name:   "nullable unwrap",
			body:   predicate.Gt(predicate.Unwrap(predicate.Field("Cost")), predicate.Value(2.5)),
			clause: `(("cost" > ?1) IS TRUE)`,
			args:   []any{"2.5"},
		},
		{
			name:   "fractional bound on integer column",
			body:   predicate.Le(predicate.Field("MaxParticipants"), predicate.Value(10.5)),
			clause: `(("max_participants" <= ?1) IS TRUE)`,
			args:   []any{10.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args, err := Where(SQLite, table, predicate.New[storagemodels.EventDbo]("e", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.clause, clause)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestWhere_Postgres(t *testing.T) {
	table := eventTable(t)
	start := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

	p := predicate.New[storagemodels.EventDbo]("e", predicate.And(
		predicate.Eq(predicate.Field("Name"), predicate.Value("Jazz")),
		predicate.Contains(predicate.Field("Description"), predicate.Value("live")),
		predicate.Ne(predicate.Field("StartDate"), predicate.Value(start)),
	))
	clause, args, err := Where(Postgres, table, p)
	require.NoError(t, err)
	assert.Equal(t, `((("name" IS NOT DISTINCT FROM $1) AND ((strpos("description", CAST($2 AS TEXT)) > 0) IS TRUE)) AND ("start_date" IS DISTINCT FROM $3))`, clause)
	assert.Equal(t, []any{"Jazz", "live", "2025-05-01T18:00:00.000000000Z"}, args)
}

func TestWhere_Errors(t *testing.T) {
	table := eventTable(t)
	for name, body := range map[string]predicate.Node{
		"unknown column":  predicate.Eq(predicate.Field("Nope"), predicate.Value(1)),
		"bad literal":     predicate.Eq(predicate.Field("Id"), predicate.Value(struct{}{})),
		"non boolean":     predicate.Value("x"),
		"bare member":     predicate.Field("Name"),
		"method on value": predicate.Contains(predicate.Value("abc"), predicate.Value("b")),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Where(SQLite, table, predicate.New[storagemodels.EventDbo]("e", body))
			assert.Error(t, err)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements("-- comment\nCREATE TABLE a (x INT);\n\nCREATE TABLE b (\n y INT\n);\nSELECT 1")
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (x INT);", stmts[0])
	assert.Equal(t, "SELECT 1", stmts[2])
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("SQLite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Driver)

	d, err = DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", d.Driver)

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}
