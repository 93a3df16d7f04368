/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDListValueScan(t *testing.T) {
	list := UUIDList{
		strfmt.UUID("0b8f1a2c-6d3e-4f50-9a71-2b3c4d5e6f70"),
		strfmt.UUID("1c9f2b3d-7e4f-4061-8b82-3c4d5e6f7081"),
	}

	v, err := list.Value()
	require.NoError(t, err)

	var scanned UUIDList
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, list, scanned)

	require.NoError(t, scanned.Scan([]byte(`[]`)))
	assert.Empty(t, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestNilUUIDListValue(t *testing.T) {
	var list UUIDList
	v, err := list.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
