/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore_test

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/registry"
	"github.com/kamileo242/EventManager/storagemodels"
)

func TestFormatTime(t *testing.T) {
	local := time.Date(2025, 7, 1, 9, 0, 0, 1500, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2025-07-01T07:00:00.000001500Z", datastore.FormatTime(local))
	assert.Equal(t, "2025-07-01T07:00:00.000000000Z", datastore.FormatTime(local.Truncate(time.Second)))

	parsed, err := strfmt.ParseDateTime(datastore.FormatTime(local))
	require.NoError(t, err)
	assert.True(t, local.Equal(time.Time(parsed)))

	// fixed width keeps text order equal to time order
	assert.Less(t, datastore.FormatTime(local), datastore.FormatTime(local.Add(time.Nanosecond)))
	assert.Less(t, datastore.FormatTime(local.Add(999*time.Millisecond)), datastore.FormatTime(local.Add(time.Second)))
}

func TestKeyOf(t *testing.T) {
	table, err := registry.DescribeTable[storagemodels.UserEventDbo]()
	require.NoError(t, err)

	row := storagemodels.UserEventDbo{UserId: "u-1", EventId: "e-1"}
	key := datastore.KeyOf(table, row)

	assert.Equal(t, datastore.Key{strfmt.UUID("u-1"), strfmt.UUID("e-1")}, key)
	assert.Equal(t, "u-1|e-1", key.String())
	assert.NoError(t, datastore.CheckKey(table, key))
	assert.Error(t, datastore.CheckKey(table, key[:1]))
}
