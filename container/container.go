/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package container

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNotRegistered is returned when resolving a type that has no factory.
	ErrNotRegistered = errors.New("component not registered")
	// ErrAlreadyRegistered is returned when a type is registered twice.
	ErrAlreadyRegistered = errors.New("component already registered")
	// ErrFactoryRequired is returned when registering a nil factory.
	ErrFactoryRequired = errors.New("component factory is required")
)

// Container resolves managed component instances by type.
type Container interface {
	// Resolve returns the instance for t, constructing it on first use.
	Resolve(ctx context.Context, t reflect.Type) (any, error)
	// IsComponent reports whether t is registered as a managed component.
	IsComponent(t reflect.Type) bool
}

// Factory constructs a component instance.
type Factory func(ctx context.Context) (any, error)

// Registry is a Container holding one lazily built instance per registered type.
type Registry struct {
	mu        sync.Mutex
	factories map[reflect.Type]Factory
	instances map[reflect.Type]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		factories: make(map[reflect.Type]Factory),
		instances: make(map[reflect.Type]any),
	}
}

// Register adds a factory for t.
func (r *Registry) Register(t reflect.Type, f Factory) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrFactoryRequired)
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrFactoryRequired, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[t]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, t)
	}
	r.factories[t] = f
	return nil
}

// Provide registers a typed factory for T.
func Provide[T any](r *Registry, f func(ctx context.Context) (T, error)) error {
	if f == nil {
		return fmt.Errorf("%w: %s", ErrFactoryRequired, reflect.TypeFor[T]())
	}
	return r.Register(reflect.TypeFor[T](), func(ctx context.Context) (any, error) {
		return f(ctx)
	})
}

// Instance registers an already built value for T.
func Instance[T any](r *Registry, v T) error {
	return Provide(r, func(context.Context) (T, error) {
		return v, nil
	})
}

// IsComponent reports whether t has a registered factory.
func (r *Registry) IsComponent(t reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.factories[t]
	return ok
}

// Resolve returns the singleton instance for t.
func (r *Registry) Resolve(ctx context.Context, t reflect.Type) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[t]; ok {
		return inst, nil
	}
	f, ok := r.factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}

	inst, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", t, err)
	}
	if inst == nil {
		return nil, fmt.Errorf("construct %s: factory returned nil", t)
	}
	if !reflect.TypeOf(inst).AssignableTo(t) {
		return nil, fmt.Errorf("construct %s: factory returned %T", t, inst)
	}

	r.instances[t] = inst
	return inst, nil
}

// Types returns the registered component types in no particular order.
func (r *Registry) Types() []reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]reflect.Type, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}
