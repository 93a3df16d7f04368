/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is. Each typed error below unwraps to one of them.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("missing mapping")
)

// NotFoundError names the entity kind and key of a lookup that found nothing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string { return keyed(e.Entity, e.Key, ErrNotFound) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyExistsError is raised by a backend on a duplicate insert.
type AlreadyExistsError struct {
	Entity string
	Key    string
}

func (e *AlreadyExistsError) Error() string { return keyed(e.Entity, e.Key, ErrAlreadyExists) }
func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// ValidationError rejects caller input: an absent entity, an empty required
// field or a reference to a record that does not exist.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ConfigurationError reports a conversion or translation between types that
// have no registered mapping, or a field with no counterpart. It is a setup
// defect and never retried.
type ConfigurationError struct {
	Source string
	Target string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s %s -> %s", ErrConfiguration, e.Source, e.Target)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func keyed(entity, key string, kind error) string {
	return fmt.Sprintf("%s %q %s", entity, key, kind)
}

func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func NewAlreadyExistsError(entity, key string) error {
	return &AlreadyExistsError{Entity: entity, Key: key}
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewConfigurationError(source, target, field, reason string) error {
	return &ConfigurationError{Source: source, Target: target, Field: field, Reason: reason}
}

func IsNotFound(err error) bool           { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool      { return errors.Is(err, ErrAlreadyExists) }
func IsValidationError(err error) bool    { return errors.Is(err, ErrInvalidInput) }
func IsConfigurationError(err error) bool { return errors.Is(err, ErrConfiguration) }
