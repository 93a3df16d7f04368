/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package eventmanager

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/datastore/memory"
	"github.com/kamileo242/EventManager/storagemodels"
)

func TestCollections(t *testing.T) {
	t.Run("BasicOperations", func(t *testing.T) {
		colls := NewCollections()
		users := memory.MustNew[storagemodels.UserDbo]()
		require.NoError(t, RegisterCollection[storagemodels.UserDbo](colls, users))

		got, err := GetCollection[storagemodels.UserDbo](colls)
		require.NoError(t, err)
		assert.Same(t, users, got)
		assert.Equal(t, []string{"users"}, colls.Tables())

		require.NoError(t, RemoveCollection[storagemodels.UserDbo](colls))
		_, err = GetCollection[storagemodels.UserDbo](colls)
		assert.Error(t, err)
		assert.Error(t, RemoveCollection[storagemodels.UserDbo](colls))
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		colls := NewCollections()
		require.NoError(t, RegisterCollection[storagemodels.UserDbo](colls, memory.MustNew[storagemodels.UserDbo]()))
		assert.Error(t, RegisterCollection[storagemodels.UserDbo](colls, memory.MustNew[storagemodels.UserDbo]()))
	})

	t.Run("DifferentTypes", func(t *testing.T) {
		colls := NewCollections()
		require.NoError(t, RegisterCollection[storagemodels.UserDbo](colls, memory.MustNew[storagemodels.UserDbo]()))
		require.NoError(t, RegisterCollection[storagemodels.UserEventDbo](colls, memory.MustNew[storagemodels.UserEventDbo]()))
		assert.Equal(t, []string{"user_events", "users"}, colls.Tables())

		_, err := GetCollection[storagemodels.EventDbo](colls)
		assert.Error(t, err)
	})
}

func TestCollections_ThreadSafety(t *testing.T) {
	colls := NewCollections()
	var wg sync.WaitGroup

	register := []func() error{
		func() error {
			return RegisterCollection[storagemodels.UserDbo](colls, memory.MustNew[storagemodels.UserDbo]())
		},
		func() error {
			return RegisterCollection[storagemodels.EventDbo](colls, memory.MustNew[storagemodels.EventDbo]())
		},
		func() error {
			return RegisterCollection[storagemodels.AddressDbo](colls, memory.MustNew[storagemodels.AddressDbo]())
		},
	}
	for _, f := range register {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, f())
		}()
		go func() {
			defer wg.Done()
			colls.Tables()
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"addresses", "events", "users"}, colls.Tables())
}
