/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package module

import (
	"reflect"

	"github.com/suparena/aggregatestore/repository"
)

// Module is a unit of candidate types scanned during provider initialization.
type Module interface {
	// Name identifies the module in logs and errors.
	Name() string
	// Types lists the candidate implementation types.
	Types() []reflect.Type
	// Aggregates lists the aggregate types the module declares.
	Aggregates() []repository.Binding
}

// Option configures a Definition.
type Option func(*Definition)

// Definition is a static Module.
type Definition struct {
	name       string
	types      []reflect.Type
	aggregates []repository.Binding
}

// New creates a module definition.
func New(name string, opts ...Option) *Definition {
	d := &Definition{name: name}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithTypes adds candidate implementation types.
func WithTypes(types ...reflect.Type) Option {
	return func(d *Definition) {
		d.types = append(d.types, types...)
	}
}

// WithAggregates adds aggregate declarations.
func WithAggregates(bindings ...repository.Binding) Option {
	return func(d *Definition) {
		d.aggregates = append(d.aggregates, bindings...)
	}
}

// TypeOf is shorthand for reflect.TypeFor[T]().
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Types() []reflect.Type {
	return d.types
}

func (d *Definition) Aggregates() []repository.Binding {
	return d.aggregates
}
