//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/storagemodels"
)

func getParticipantStore(t *testing.T) *Collection[storagemodels.UserEventDbo] {
	if err := godotenv.Load(); err != nil {
		t.Log("no .env file, using the process environment")
	}
	tableName := os.Getenv("AWS_DDB_TABLE")
	if tableName == "" {
		t.Skip("AWS_DDB_TABLE is not set")
	}

	client, err := NewDynamoDBClient(context.Background(), ClientConfig{
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
	})
	require.NoError(t, err)

	store, err := New[storagemodels.UserEventDbo](client, tableName, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return store
}

func TestDynamoDB_ParticipantLifecycle(t *testing.T) {
	ctx := context.Background()
	store := getParticipantStore(t)

	row := storagemodels.UserEventDbo{
		UserId:      strfmt.UUID(uuid.NewString()),
		EventId:     strfmt.UUID(uuid.NewString()),
		DepositPaid: decimal.RequireFromString("25.05"),
		JoinedAt:    strfmt.DateTime(time.Now().UTC()),
	}
	key := datastore.Key{row.UserId, row.EventId}

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Insert(row))
	require.NoError(t, tx.Commit())

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "25.05", got.DepositPaid.String())
	assert.True(t, time.Time(row.JoinedAt).Equal(time.Time(got.JoinedAt)))

	rows, err := store.Filter(ctx, predicate.New[storagemodels.UserEventDbo]("p",
		predicate.Eq(predicate.Field("UserId"), predicate.Value(row.UserId))))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Remove(key))
	require.NoError(t, tx.Commit())

	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}
