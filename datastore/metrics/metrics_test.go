/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/datastore/memory"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/storagemodels"
)

func TestCollection_CountsOperations(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	users := Wrap[storagemodels.UserDbo](memory.MustNew[storagemodels.UserDbo](), m)
	assert.Equal(t, "users", users.Table().Name)

	tx, err := users.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Insert(storagemodels.UserDbo{Id: strfmt.UUID("a"), Name: "Adam"}))
	require.NoError(t, tx.Commit())

	_, err = users.Get(ctx, datastore.Key{strfmt.UUID("a")})
	require.NoError(t, err)
	_, err = users.All(ctx)
	require.NoError(t, err)
	rows, err := users.Filter(ctx, predicate.All[storagemodels.UserDbo]())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	for _, op := range []datastore.Op{datastore.OpBegin, datastore.OpCommit, datastore.OpGet, datastore.OpAll, datastore.OpFilter} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", string(op), "ok")), op)
	}
	assert.Equal(t, 5, testutil.CollectAndCount(m.duration))
}

func TestCollection_CountsErrors(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	boom := errors.New("boom")
	events := Wrap[storagemodels.EventDbo](memory.MustNew[storagemodels.EventDbo]().WithError(datastore.OpAll, boom), m)

	_, err = events.All(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("events", "all", "error")))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	assert.Same(t, first.operations, second.operations)
	assert.Same(t, first.duration, second.duration)
}
