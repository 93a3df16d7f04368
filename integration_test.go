//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package eventmanager_test

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventmanager "github.com/kamileo242/EventManager"
	"github.com/kamileo242/EventManager/config"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/service"
)

// TestDynamoDBStore runs the service flow against a real table, configured
// through .env or the environment like the ddb package tests.
func TestDynamoDBStore(t *testing.T) {
	t.Setenv("EVENTMANAGER_STORAGE_DRIVER", config.DriverDynamoDB)
	cfg, err := config.Load("")
	if err != nil {
		t.Skipf("dynamodb not configured: %v", err)
	}

	ctx := context.Background()
	store, err := eventmanager.Open(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()
	svc := store.Services()

	user := &models.User{Name: "Integration", LastName: os.Getenv("USER")}
	if user.LastName == "" {
		user.LastName = "Tester"
	}
	require.NoError(t, svc.Users.Add(ctx, user))
	defer func() { assert.NoError(t, svc.Users.Delete(ctx, user.Id)) }()

	event := &models.Event{Name: "Integration event"}
	require.NoError(t, svc.Events.Add(ctx, event))
	defer func() { assert.NoError(t, svc.Events.Delete(ctx, event.Id)) }()

	require.NoError(t, svc.Participants.Add(ctx, &models.UserEvent{UserId: user.Id, EventId: event.Id, DepositPaid: decimal.NewFromInt(5)}))
	defer func() { assert.NoError(t, svc.Participants.Delete(ctx, user.Id, event.Id)) }()

	found, err := svc.Users.Find(ctx, service.UserQuery{Name: "Integr", LastName: user.LastName}.Predicate())
	require.NoError(t, err)
	assert.NotEmpty(t, found)

	require.NoError(t, svc.Participants.UpdateDepositPaid(ctx, user.Id, event.Id, decimal.RequireFromString("5.05")))
	ue, err := svc.Participants.Get(ctx, user.Id, event.Id)
	require.NoError(t, err)
	assert.Equal(t, "10.05", ue.DepositPaid.String())
}
