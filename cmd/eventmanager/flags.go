/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kamileo242/EventManager/errors"
)

func parseID(name, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.NewValidationError(name, fmt.Sprintf("%q is not a valid identifier", s))
	}
	return id, nil
}

// The opt helpers return nil for flags that were not given.

func optInt(cmd *cobra.Command, name string) (*int, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetInt(name)
	return &v, err
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.NewValidationError(name, fmt.Sprintf("%q is not a decimal number", s))
	}
	return d, nil
}

func optDecimal(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	d, err := parseAmount(name, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optTime(cmd *cobra.Command, name string) (*time.Time, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, errors.NewValidationError(name, "expected an RFC 3339 date-time")
	}
	return &t, nil
}

func optID(cmd *cobra.Command, name string) (*uuid.UUID, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	id, err := parseID(name, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
