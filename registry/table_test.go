/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/registry"
	"github.com/kamileo242/EventManager/storagemodels"
)

type untaggedRow struct {
	Code  string `db:"code,key"`
	Label string
	skip  int
	Extra string `db:"-"`
}

type keyless struct {
	Name string
}

func TestDescribeTable(t *testing.T) {
	table, err := registry.DescribeTable[storagemodels.UserEventDbo]()
	require.NoError(t, err)

	assert.Equal(t, "user_events", table.Name)
	assert.Equal(t, []string{"user_id", "event_id", "deposit_paid", "joined_at"}, table.ColumnNames())
	require.Len(t, table.Keys, 2)
	assert.Equal(t, "UserId", table.Keys[0].Field)
	assert.Equal(t, "EventId", table.Keys[1].Field)

	col, ok := table.Column("DepositPaid")
	require.True(t, ok)
	assert.Equal(t, "deposit_paid", col.Name)
	assert.Equal(t, "DepositPaid", col.Attribute)
	assert.Equal(t, reflect.TypeOf(float64(0)), col.Type)

	_, ok = table.Column("Missing")
	assert.False(t, ok)
}

func TestDescribe_DefaultsAndErrors(t *testing.T) {
	table, err := registry.Describe(reflect.TypeOf(untaggedRow{}))
	require.NoError(t, err)
	assert.Equal(t, "untaggedrow", table.Name)
	assert.Equal(t, []string{"code", "Label"}, table.ColumnNames())

	again, err := registry.Describe(reflect.TypeOf(untaggedRow{}))
	require.NoError(t, err)
	assert.Equal(t, table, again)

	_, err = registry.Describe(reflect.TypeOf(keyless{}))
	assert.Error(t, err)

	_, err = registry.Describe(reflect.TypeOf(""))
	assert.Error(t, err)
}
