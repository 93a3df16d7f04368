/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bolt_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/datastore/bolt"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/storagemodels"
)

func TestCollection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "events.bolt")
	db, err := bolt.Open(path)
	require.NoError(t, err)

	participants, err := bolt.New[storagemodels.UserEventDbo](db)
	require.NoError(t, err)
	assert.Equal(t, "user_events", participants.Table().Name)

	userID := strfmt.UUID(uuid.NewString())
	joined := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))
	rows := []storagemodels.UserEventDbo{
		{UserId: userID, EventId: strfmt.UUID(uuid.NewString()), DepositPaid: decimal.RequireFromString("10.01"), JoinedAt: strfmt.DateTime(joined)},
		{UserId: userID, EventId: strfmt.UUID(uuid.NewString()), JoinedAt: strfmt.DateTime(joined.Add(time.Microsecond))},
		{UserId: strfmt.UUID(uuid.NewString()), EventId: strfmt.UUID(uuid.NewString()), DepositPaid: decimal.NewFromInt(50)},
	}

	tx, err := participants.Begin(ctx)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, tx.Insert(r))
	}
	require.NoError(t, tx.Commit())

	got, err := participants.Get(ctx, datastore.Key{rows[0].UserId, rows[0].EventId})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10.01", got.DepositPaid.String())
	assert.True(t, joined.Equal(time.Time(got.JoinedAt)), "nanoseconds survive the round trip")

	mine, err := participants.Filter(ctx, predicate.New[storagemodels.UserEventDbo]("p",
		predicate.And(
			predicate.Eq(predicate.Field("UserId"), predicate.Value(uuid.MustParse(string(userID)))),
			predicate.Gt(predicate.Field("DepositPaid"), predicate.Value(0)),
		)))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, rows[0].EventId, mine[0].EventId)

	t.Run("date-times are stored with nanoseconds", func(t *testing.T) {
		var doc map[string]any
		require.NoError(t, db.View(func(tx *bbolt.Tx) error {
			data := tx.Bucket([]byte("user_events")).Get([]byte(datastore.Key{rows[0].UserId, rows[0].EventId}.String()))
			return json.Unmarshal(data, &doc)
		}))
		assert.Equal(t, "2025-03-01T11:00:00.123456789Z", doc["JoinedAt"])
		assert.Equal(t, "10.01", doc["DepositPaid"])
	})

	t.Run("failed commit is atomic", func(t *testing.T) {
		tx, err := participants.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Remove(datastore.Key{rows[2].UserId, rows[2].EventId}))
		require.NoError(t, tx.Insert(rows[0]))
		assert.True(t, errors.IsAlreadyExists(tx.Commit()))

		all, err := participants.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("overwrite", func(t *testing.T) {
		changed := rows[1]
		changed.DepositPaid = decimal.NewFromInt(99)
		tx, err := participants.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Overwrite(datastore.Key{changed.UserId, changed.EventId}, changed))
		require.NoError(t, tx.Commit())

		got, err := participants.Get(ctx, datastore.Key{changed.UserId, changed.EventId})
		require.NoError(t, err)
		assert.Equal(t, "99", got.DepositPaid.String())

		tx, err = participants.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Overwrite(datastore.Key{strfmt.UUID("x"), strfmt.UUID("y")}, changed))
		assert.True(t, errors.IsNotFound(tx.Commit()))
	})

	require.NoError(t, db.Close())

	t.Run("reopen keeps rows", func(t *testing.T) {
		db, err := bolt.Open(path)
		require.NoError(t, err)
		defer db.Close()
		participants, err := bolt.New[storagemodels.UserEventDbo](db)
		require.NoError(t, err)
		all, err := participants.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
