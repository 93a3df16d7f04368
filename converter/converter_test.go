/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter_test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamileo242/EventManager/converter"
	"github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/registry"
	"github.com/kamileo242/EventManager/storagemodels"
)

func newConverter(t *testing.T) *converter.Converter {
	t.Helper()
	r := registry.New()
	registry.MustRegister[models.User, storagemodels.UserDbo](r)
	registry.MustRegister[models.Event, storagemodels.EventDbo](r)
	registry.MustRegister[models.Address, storagemodels.AddressDbo](r)
	registry.MustRegister[models.UserEvent, storagemodels.UserEventDbo](r)
	r.Seal()
	return converter.New(r)
}

func TestConvert_User(t *testing.T) {
	c := newConverter(t)
	id := uuid.New()

	dbo, err := converter.Convert[storagemodels.UserDbo](c, models.User{Id: id, Name: "Adam", LastName: "Kowalski"})
	require.NoError(t, err)
	assert.Equal(t, strfmt.UUID(id.String()), dbo.Id)
	assert.Equal(t, "Adam", dbo.Name)
	assert.Equal(t, "Kowalski", dbo.LastName)

	back, err := converter.Convert[*models.User](c, &dbo)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, models.User{Id: id, Name: "Adam", LastName: "Kowalski"}, *back)
}

func TestConvert_EventOptionalFields(t *testing.T) {
	c := newConverter(t)
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	addressID := uuid.New()
	max := 40
	cost := decimal.RequireFromString("12.50")

	event := models.Event{
		Id:              uuid.New(),
		Name:            "Meetup",
		StartDate:       &start,
		AddressId:       &addressID,
		MaxParticipants: &max,
		Cost:            &cost,
	}

	dbo, err := converter.Convert[storagemodels.EventDbo](c, &event)
	require.NoError(t, err)
	require.NotNil(t, dbo.StartDate)
	assert.True(t, time.Time(*dbo.StartDate).Equal(start))
	assert.Nil(t, dbo.EndDate)
	require.NotNil(t, dbo.AddressId)
	assert.Equal(t, strfmt.UUID(addressID.String()), *dbo.AddressId)
	require.NotNil(t, dbo.MaxParticipants)
	assert.Equal(t, int64(40), *dbo.MaxParticipants)

	require.NotNil(t, dbo.Cost)
	assert.Equal(t, "12.5", dbo.Cost.String())

	// the converted pointers do not alias the model's
	*dbo.Cost = decimal.NewFromInt(99)
	assert.Equal(t, "12.5", cost.String())

	back, err := converter.Convert[models.Event](c, dbo)
	require.NoError(t, err)
	assert.Equal(t, event.Id, back.Id)
	assert.Equal(t, 40, *back.MaxParticipants)
	assert.Nil(t, back.EndDate)
	assert.True(t, back.StartDate.Equal(start))
	require.NotNil(t, back.Cost)
	assert.True(t, back.Cost.Equal(decimal.NewFromInt(99)))
}

func TestConvert_DecimalCanonicalForm(t *testing.T) {
	c := newConverter(t)

	dbo, err := converter.Convert[storagemodels.UserEventDbo](c, models.UserEvent{
		UserId:      uuid.New(),
		EventId:     uuid.New(),
		DepositPaid: decimal.NewFromFloat(10),
	})
	require.NoError(t, err)
	assert.Equal(t, decimal.RequireFromString("10"), dbo.DepositPaid)

	zero, err := converter.Convert[storagemodels.UserEventDbo](c, models.UserEvent{DepositPaid: decimal.New(0, -2)})
	require.NoError(t, err)
	assert.Equal(t, decimal.Decimal{}, zero.DepositPaid)
}

func TestConvert_AddressEventsIds(t *testing.T) {
	c := newConverter(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	dbo, err := converter.Convert[storagemodels.AddressDbo](c, models.Address{Id: uuid.New(), City: "Gdańsk", EventsIds: ids})
	require.NoError(t, err)
	require.Len(t, dbo.EventsIds, 2)
	assert.Equal(t, strfmt.UUID(ids[1].String()), dbo.EventsIds[1])

	back, err := converter.Convert[models.Address](c, dbo)
	require.NoError(t, err)
	assert.Equal(t, ids, back.EventsIds)
}

func TestConvert_NilSource(t *testing.T) {
	c := newConverter(t)

	out, err := converter.Convert[storagemodels.UserDbo](c, nil)
	require.NoError(t, err)
	assert.Equal(t, storagemodels.UserDbo{}, out)

	var missing *models.User
	ptr, err := converter.Convert[*storagemodels.UserDbo](c, missing)
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestConvert_Unregistered(t *testing.T) {
	c := newConverter(t)

	_, err := converter.Convert[storagemodels.EventDbo](c, models.User{Id: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "models.User")
}

func TestConvert_BadValue(t *testing.T) {
	c := newConverter(t)

	_, err := converter.Convert[models.User](c, storagemodels.UserDbo{Id: "not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field Id")
}

func TestConvertAll(t *testing.T) {
	c := newConverter(t)
	rows := []storagemodels.UserDbo{
		{Id: strfmt.UUID(uuid.NewString()), Name: "A"},
		{Id: strfmt.UUID(uuid.NewString()), Name: "B"},
	}

	users, err := converter.ConvertAll[models.User](c, rows)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "A", users[0].Name)
	assert.Equal(t, "B", users[1].Name)

	empty, err := converter.ConvertAll[models.User, storagemodels.UserDbo](c, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCoerce(t *testing.T) {
	id := uuid.New()
	v, err := converter.Coerce(id, reflect.TypeOf(strfmt.UUID("")))
	require.NoError(t, err)
	assert.Equal(t, strfmt.UUID(id.String()), v)
}

func TestConvert_Concurrent(t *testing.T) {
	c := newConverter(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				u := models.User{Id: uuid.New(), Name: "N"}
				dbo, err := converter.Convert[storagemodels.UserDbo](c, u)
				if err != nil || dbo.Id != strfmt.UUID(u.Id.String()) {
					t.Error("conversion mismatch")
					return
				}
			}
		}()
	}
	wg.Wait()
}
