/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/datastore/memory"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/repository"
	"github.com/kamileo242/EventManager/storagemodels"
)

func newUserEvents(t *testing.T) (*repository.UserEvents, *memory.Collection[storagemodels.UserEventDbo]) {
	t.Helper()
	coll := memory.MustNew[storagemodels.UserEventDbo]()
	return repository.NewUserEvents(coll, newConverter(t)), coll
}

func TestUserEvents_AddAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newUserEvents(t)

	userId := uuid.New()
	ue := models.UserEvent{
		UserId:      userId,
		EventId:     uuid.New(),
		DepositPaid: decimal.NewFromInt(20),
		JoinedAt:    time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	other := models.UserEvent{UserId: userId, EventId: uuid.New()}
	require.NoError(t, repo.Add(ctx, &ue))
	require.NoError(t, repo.Add(ctx, &other))

	got, err := repo.Get(ctx, ue.UserId, ue.EventId)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ue, *got)

	got, err = repo.Get(ctx, ue.EventId, ue.UserId)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.True(t, errors.IsAlreadyExists(repo.Add(ctx, &ue)))
	assert.True(t, errors.IsValidationError(repo.Add(ctx, nil)))
}

func TestUserEvents_UpdateDepositPaid(t *testing.T) {
	ctx := context.Background()
	repo, coll := newUserEvents(t)

	ue := models.UserEvent{UserId: uuid.New(), EventId: uuid.New(), DepositPaid: decimal.NewFromInt(10)}
	require.NoError(t, repo.Add(ctx, &ue))

	require.NoError(t, repo.UpdateDepositPaid(ctx, ue.UserId, ue.EventId, decimal.RequireFromString("5.5")))
	got, err := repo.Get(ctx, ue.UserId, ue.EventId)
	require.NoError(t, err)
	assert.Equal(t, "15.5", got.DepositPaid.String())

	require.NoError(t, repo.UpdateDepositPaid(ctx, uuid.New(), ue.EventId, decimal.NewFromInt(100)))
	assert.Equal(t, 1, coll.Len())
}

func TestUserEvents_DepositsAddUpExactly(t *testing.T) {
	ctx := context.Background()
	repo, _ := newUserEvents(t)

	ue := models.UserEvent{UserId: uuid.New(), EventId: uuid.New(), DepositPaid: decimal.RequireFromString("0.1")}
	require.NoError(t, repo.Add(ctx, &ue))
	require.NoError(t, repo.UpdateDepositPaid(ctx, ue.UserId, ue.EventId, decimal.RequireFromString("0.2")))

	got, err := repo.Get(ctx, ue.UserId, ue.EventId)
	require.NoError(t, err)
	assert.Equal(t, "0.3", got.DepositPaid.String())
	assert.Equal(t, decimal.RequireFromString("0.3"), got.DepositPaid)

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.UpdateDepositPaid(ctx, ue.UserId, ue.EventId, decimal.RequireFromString("0.01")))
	}
	got, err = repo.Get(ctx, ue.UserId, ue.EventId)
	require.NoError(t, err)
	assert.Equal(t, "0.4", got.DepositPaid.String())
}

func TestUserEvents_FindAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, coll := newUserEvents(t)

	eventId := uuid.New()
	first := models.UserEvent{UserId: uuid.New(), EventId: eventId, DepositPaid: decimal.NewFromInt(50)}
	second := models.UserEvent{UserId: uuid.New(), EventId: eventId}
	third := models.UserEvent{UserId: first.UserId, EventId: uuid.New(), DepositPaid: decimal.NewFromInt(70)}
	for _, ue := range []models.UserEvent{first, second, third} {
		require.NoError(t, repo.Add(ctx, &ue))
	}

	inEvent, err := repo.Find(ctx, predicate.New[models.UserEvent]("ue",
		predicate.Eq(predicate.Field("EventId"), predicate.Value(eventId))))
	require.NoError(t, err)
	assert.Len(t, inEvent, 2)

	paid, err := repo.Find(ctx, predicate.New[models.UserEvent]("ue", predicate.And(
		predicate.Eq(predicate.Field("UserId"), predicate.Value(first.UserId)),
		predicate.Ge(predicate.Field("DepositPaid"), predicate.Value(60)),
	)))
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, third.EventId, paid[0].EventId)

	require.NoError(t, repo.Delete(ctx, first.UserId, first.EventId))
	require.NoError(t, repo.Delete(ctx, first.UserId, first.EventId))
	assert.Equal(t, 2, coll.Len())

	got, err := repo.Get(ctx, first.UserId, first.EventId)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Find(ctx, predicate.New[models.UserEvent]("ue",
		predicate.Eq(predicate.Field("Status"), predicate.Value("x"))))
	assert.True(t, errors.IsConfigurationError(err))
}
