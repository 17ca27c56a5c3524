/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-memory implementation of repository.Repository[T]
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/aggregatestore/errors"
)

// Store is an in-memory aggregate repository for type T
type Store[T any] struct {
	mu          sync.RWMutex
	data        map[string]T
	keyFunc     func(aggregate T) string
	getError    error
	putError    error
	deleteError error
}

// New creates a new in-memory Store
func New[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[string]T),
	}
}

// WithKeyFunc sets the function used to extract aggregate root IDs
func (m *Store[T]) WithKeyFunc(f func(T) string) *Store[T] {
	m.keyFunc = f
	return m
}

// WithGetError makes Get operations return an error
func (m *Store[T]) WithGetError(err error) *Store[T] {
	m.getError = err
	return m
}

// WithPutError makes Put operations return an error
func (m *Store[T]) WithPutError(err error) *Store[T] {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Store[T]) WithDeleteError(err error) *Store[T] {
	m.deleteError = err
	return m
}

// Get retrieves an aggregate by its root ID
func (m *Store[T]) Get(ctx context.Context, aggregateRootID string) (*T, error) {
	if m.getError != nil {
		return nil, m.getError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if aggregate, exists := m.data[aggregateRootID]; exists {
		return &aggregate, nil
	}

	var zero T
	return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), aggregateRootID)
}

// Put stores an aggregate under the key returned by the key function
func (m *Store[T]) Put(ctx context.Context, aggregate T) error {
	if m.putError != nil {
		return m.putError
	}

	key := m.extractKey(aggregate)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from aggregate")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = aggregate
	return nil
}

// Delete removes an aggregate by its root ID
func (m *Store[T]) Delete(ctx context.Context, aggregateRootID string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[aggregateRootID]; !exists {
		var zero T
		return errors.NewNotFoundError(fmt.Sprintf("%T", zero), aggregateRootID)
	}

	delete(m.data, aggregateRootID)
	return nil
}

// Count returns the number of stored aggregates
func (m *Store[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *Store[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
}

func (m *Store[T]) extractKey(aggregate T) string {
	if m.keyFunc != nil {
		return m.keyFunc(aggregate)
	}
	return fmt.Sprintf("key_%v", aggregate)
}
