/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package coerce

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func TestPossible(t *testing.T) {
	tests := []struct {
		name     string
		src, dst reflect.Type
		want     bool
	}{
		{"identical", typeOf[string](), typeOf[string](), true},
		{"uuid to text", typeOf[uuid.UUID](), typeOf[strfmt.UUID](), true},
		{"text to uuid", typeOf[strfmt.UUID](), typeOf[uuid.UUID](), true},
		{"optional uuid", typeOf[*uuid.UUID](), typeOf[*strfmt.UUID](), true},
		{"time to datetime", typeOf[time.Time](), typeOf[strfmt.DateTime](), true},
		{"optional time", typeOf[*time.Time](), typeOf[*strfmt.DateTime](), true},
		{"int widening", typeOf[*int](), typeOf[*int64](), true},
		{"nullable to required", typeOf[*float64](), typeOf[float64](), true},
		{"uuid slice", typeOf[[]uuid.UUID](), typeOf[[]strfmt.UUID](), true},
		{"float to decimal", typeOf[float64](), typeOf[decimal.Decimal](), true},
		{"decimal to int", typeOf[decimal.Decimal](), typeOf[int64](), true},
		{"optional decimal", typeOf[*decimal.Decimal](), typeOf[*decimal.Decimal](), true},
		{"int to string", typeOf[int](), typeOf[string](), false},
		{"string to int", typeOf[string](), typeOf[int](), false},
		{"time to string kind without text support", typeOf[time.Time](), typeOf[int](), false},
		{"struct mismatch", typeOf[struct{ A int }](), typeOf[struct{ B int }](), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Possible(tt.src, tt.dst))
		})
	}
}

func TestValue(t *testing.T) {
	id := uuid.MustParse("6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f")
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	t.Run("uuid round trip", func(t *testing.T) {
		text, err := To(id, typeOf[strfmt.UUID]())
		require.NoError(t, err)
		assert.Equal(t, strfmt.UUID(id.String()), text)

		back, err := To(text, typeOf[uuid.UUID]())
		require.NoError(t, err)
		assert.Equal(t, id, back)
	})

	t.Run("empty text is the zero uuid", func(t *testing.T) {
		back, err := To(strfmt.UUID(""), typeOf[uuid.UUID]())
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, back)
	})

	t.Run("invalid text", func(t *testing.T) {
		_, err := To(strfmt.UUID("not-a-uuid"), typeOf[uuid.UUID]())
		assert.Error(t, err)
	})

	t.Run("time pointer", func(t *testing.T) {
		out, err := To(&now, typeOf[*strfmt.DateTime]())
		require.NoError(t, err)
		dt := out.(*strfmt.DateTime)
		assert.True(t, time.Time(*dt).Equal(now))
	})

	t.Run("nil pointer to value", func(t *testing.T) {
		var cost *float64
		out, err := To(cost, typeOf[float64]())
		require.NoError(t, err)
		assert.Equal(t, 0.0, out)
	})

	t.Run("value to pointer", func(t *testing.T) {
		out, err := To(12.5, typeOf[*float64]())
		require.NoError(t, err)
		assert.Equal(t, 12.5, *out.(*float64))
	})

	t.Run("narrowing overflow", func(t *testing.T) {
		_, err := To(int64(1<<40), typeOf[int32]())
		assert.Error(t, err)
		_, err = To(2.5, typeOf[int]())
		assert.Error(t, err)
	})

	t.Run("float bounds of 64-bit integers", func(t *testing.T) {
		_, err := To(float64(1<<63), typeOf[int64]())
		assert.Error(t, err)
		_, err = To(-float64(1<<63)*2, typeOf[int64]())
		assert.Error(t, err)
		out, err := To(-float64(1<<63), typeOf[int64]())
		require.NoError(t, err)
		assert.Equal(t, int64(-1<<63), out)

		_, err = To(float64(1<<64), typeOf[uint64]())
		assert.Error(t, err)
		_, err = To(-1.0, typeOf[uint64]())
		assert.Error(t, err)
		out, err = To(float64(1<<63), typeOf[uint64]())
		require.NoError(t, err)
		assert.Equal(t, uint64(1<<63), out)
	})

	t.Run("decimals", func(t *testing.T) {
		out, err := To(0.1, typeOf[decimal.Decimal]())
		require.NoError(t, err)
		assert.Equal(t, decimal.RequireFromString("0.1"), out)

		out, err = To(int64(40), typeOf[*decimal.Decimal]())
		require.NoError(t, err)
		assert.Equal(t, "40", out.(*decimal.Decimal).String())

		out, err = To(decimal.RequireFromString("12.50"), typeOf[decimal.Decimal]())
		require.NoError(t, err)
		assert.Equal(t, decimal.RequireFromString("12.5"), out)

		out, err = To(decimal.RequireFromString("12.00"), typeOf[int]())
		require.NoError(t, err)
		assert.Equal(t, 12, out)

		out, err = To("7.25", typeOf[decimal.Decimal]())
		require.NoError(t, err)
		assert.Equal(t, decimal.RequireFromString("7.25"), out)

		_, err = To(math.NaN(), typeOf[decimal.Decimal]())
		assert.Error(t, err)
	})

	t.Run("canonical decimal", func(t *testing.T) {
		assert.Equal(t, decimal.Decimal{}, Decimal(decimal.New(0, -3)))
		assert.Equal(t, decimal.RequireFromString("10"), Decimal(decimal.NewFromFloat(10)))
		assert.True(t, Decimal(decimal.RequireFromString("1.230")).Equal(decimal.RequireFromString("1.23")))
	})

	t.Run("uuid text is lower-cased", func(t *testing.T) {
		out, err := To("6F1C2D3E-4B5A-4C7D-8E9F-0A1B2C3D4E5F", typeOf[strfmt.UUID]())
		require.NoError(t, err)
		assert.Equal(t, strfmt.UUID(id.String()), out)
	})

	t.Run("slices are cloned", func(t *testing.T) {
		src := []string{"a", "b"}
		out, err := To(src, typeOf[[]string]())
		require.NoError(t, err)
		src[0] = "changed"
		assert.Equal(t, []string{"a", "b"}, out)
	})

	t.Run("uuid slice", func(t *testing.T) {
		out, err := To([]uuid.UUID{id}, typeOf[[]strfmt.UUID]())
		require.NoError(t, err)
		assert.Equal(t, []strfmt.UUID{strfmt.UUID(id.String())}, out)
	})

	t.Run("incompatible", func(t *testing.T) {
		_, err := To(42, typeOf[string]())
		assert.Error(t, err)
	})
}
