/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/predicate"
)

// Query objects turn optional search criteria into predicates. Unset
// criteria are left out; text criteria match by containment and range
// bounds are inclusive. An entity with an unset value never satisfies a
// bound on that value.

type UserQuery struct {
	Name     string
	LastName string
}

func (q UserQuery) Predicate() predicate.Predicate[models.User] {
	var c conditions
	c.contains("Name", q.Name)
	c.contains("LastName", q.LastName)
	return predicate.New[models.User]("user", c.body())
}

type AddressQuery struct {
	City        string
	Street      string
	HouseNumber string
}

func (q AddressQuery) Predicate() predicate.Predicate[models.Address] {
	var c conditions
	c.contains("City", q.City)
	c.contains("Street", q.Street)
	c.contains("HouseNumber", q.HouseNumber)
	return predicate.New[models.Address]("address", c.body())
}

type EventQuery struct {
	Name        string
	Description string

	StartDateFrom *time.Time
	StartDateTo   *time.Time
	EndDateFrom   *time.Time
	EndDateTo     *time.Time

	AddressId *uuid.UUID

	MinParticipants *int
	MaxParticipants *int

	MinCost *decimal.Decimal
	MaxCost *decimal.Decimal
}

func (q EventQuery) Predicate() predicate.Predicate[models.Event] {
	var c conditions
	c.contains("Name", q.Name)
	c.contains("Description", q.Description)
	between(&c, "StartDate", q.StartDateFrom, q.StartDateTo)
	between(&c, "EndDate", q.EndDateFrom, q.EndDateTo)
	if q.AddressId != nil {
		c.add(predicate.Eq(predicate.Field("AddressId"), predicate.Value(*q.AddressId)))
	}
	between(&c, "MaxParticipants", q.MinParticipants, q.MaxParticipants)
	between(&c, "Cost", q.MinCost, q.MaxCost)
	return predicate.New[models.Event]("e", c.body())
}

type UserEventQuery struct {
	UserId  *uuid.UUID
	EventId *uuid.UUID

	MinDepositPaid *decimal.Decimal
	MaxDepositPaid *decimal.Decimal

	JoinedFrom *time.Time
	JoinedTo   *time.Time
}

func (q UserEventQuery) Predicate() predicate.Predicate[models.UserEvent] {
	var c conditions
	if q.UserId != nil {
		c.add(predicate.Eq(predicate.Field("UserId"), predicate.Value(*q.UserId)))
	}
	if q.EventId != nil {
		c.add(predicate.Eq(predicate.Field("EventId"), predicate.Value(*q.EventId)))
	}
	between(&c, "DepositPaid", q.MinDepositPaid, q.MaxDepositPaid)
	between(&c, "JoinedAt", q.JoinedFrom, q.JoinedTo)
	return predicate.New[models.UserEvent]("ue", c.body())
}

type conditions []predicate.Node

func (c *conditions) add(n predicate.Node) {
	*c = append(*c, n)
}

func (c *conditions) contains(field, text string) {
	if text != "" {
		c.add(predicate.Contains(predicate.Field(field), predicate.Value(text)))
	}
}

func between[V any](c *conditions, field string, from, to *V) {
	if from != nil {
		c.add(predicate.Ge(predicate.Field(field), predicate.Value(*from)))
	}
	if to != nil {
		c.add(predicate.Le(predicate.Field(field), predicate.Value(*to)))
	}
}

func (c conditions) body() predicate.Node {
	return predicate.And(c...)
}
