/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/registry"
	"github.com/kamileo242/EventManager/storagemodels"
)

type ticket struct {
	Serial string `db:"serial,key"`
	Holder string `db:"holder"`
}

func TestIndexMaps(t *testing.T) {
	idx, ok := registry.GetIndexMap[storagemodels.UserEventDbo]()
	require.True(t, ok)
	assert.Equal(t, "USER#{UserId}", idx["PK"])
	assert.Equal(t, "EVENT#{EventId}", idx["SK"])

	source := map[string]string{"PK": "TICKET#{Serial}", "SK": "TICKET#{Serial}"}
	require.NoError(t, registry.RegisterIndexMap[ticket](source))
	source["PK"] = "changed"

	byType, ok := registry.IndexMapOf(reflect.TypeOf(ticket{}))
	require.True(t, ok)
	assert.Equal(t, "TICKET#{Serial}", byType["PK"])

	_, ok = registry.GetIndexMap[struct{ X int }]()
	assert.False(t, ok)
}

func TestRegisterIndexMap_Rejects(t *testing.T) {
	tests := []struct {
		name string
		idx  map[string]string
	}{
		{"missing sort key", map[string]string{"PK": "TICKET#{Serial}"}},
		{"non-key placeholder", map[string]string{"PK": "TICKET#{Serial}", "SK": "HOLDER#{Holder}"}},
		{"unknown placeholder", map[string]string{"PK": "TICKET#{Serial}", "SK": "{Nope}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.RegisterIndexMap[ticket](tt.idx)
			assert.True(t, errors.IsConfigurationError(err), "got %v", err)
		})
	}

	type keyless struct{ Name string }
	assert.Error(t, registry.RegisterIndexMap[keyless](map[string]string{"PK": "X", "SK": "Y"}))
	assert.Panics(t, func() {
		registry.MustRegisterIndexMap[ticket](map[string]string{"PK": "{Holder}", "SK": "{Serial}"})
	})
}
