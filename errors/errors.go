/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an aggregate is not found
	ErrNotFound = errors.New("aggregate not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when a store has no index map for its aggregate type
	ErrNoIndexMap = errors.New("no index map found for type")

	// ErrConfiguration is returned when a repository implementation is not a managed component
	ErrConfiguration = errors.New("repository configuration error")

	// ErrConstruction is returned when a repository instance or proxy cannot be built
	ErrConstruction = errors.New("repository construction error")

	// ErrConflict is returned when two implementations serve the same aggregate type
	ErrConflict = errors.New("repository conflict")

	// ErrAlreadyInitialized is returned when a provider is initialized more than once
	ErrAlreadyInitialized = errors.New("repository provider already initialized")

	// ErrRepositoryNotFound is returned by required lookups when no repository serves an aggregate type
	ErrRepositoryNotFound = errors.New("repository not found")
)

// NotFoundError represents an error when an aggregate is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// ConfigurationError reports a repository implementation type that is not
// registered as a component in the container.
type ConfigurationError struct {
	Type   string
	Module string
}

func (e *ConfigurationError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("aggregate repository [type=%s, module=%s] should be registered as a component", e.Type, e.Module)
	}
	return fmt.Sprintf("aggregate repository [type=%s] should be registered as a component", e.Type)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConstructionError reports a failure to resolve a repository implementation
// or to bind it into a proxy for an aggregate type.
type ConstructionError struct {
	Type      string
	Aggregate string
	Err       error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("cannot build repository [type=%s]", e.Type)
	if e.Aggregate != "" {
		msg = fmt.Sprintf("cannot build repository [type=%s, aggregate=%s]", e.Type, e.Aggregate)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// ConflictError reports two implementations claiming the same aggregate type.
type ConflictError struct {
	Aggregate string
	Existing  string
	Duplicate string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("aggregate %s is served by both %s and %s", e.Aggregate, e.Existing, e.Duplicate)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(aggregateType, key string) error {
	return &NotFoundError{Type: aggregateType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(typeName, module string) error {
	return &ConfigurationError{Type: typeName, Module: module}
}

// NewConstructionError creates a new ConstructionError
func NewConstructionError(typeName, aggregate string, err error) error {
	return &ConstructionError{Type: typeName, Aggregate: aggregate, Err: err}
}

// NewConflictError creates a new ConflictError
func NewConflictError(aggregate, existing, duplicate string) error {
	return &ConflictError{Aggregate: aggregate, Existing: existing, Duplicate: duplicate}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsConstruction checks if an error is a construction error
func IsConstruction(err error) bool {
	return errors.Is(err, ErrConstruction)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
