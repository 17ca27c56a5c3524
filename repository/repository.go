/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"
	"reflect"
)

// Repository loads aggregates of type T by their root identifier.
type Repository[T any] interface {
	Get(ctx context.Context, aggregateRootID string) (*T, error)
}

// Proxy is a type-erased handle over a Repository[T] whose T is only known
// at runtime through AggregateType.
type Proxy interface {
	// AggregateType returns the aggregate type the proxy serves.
	AggregateType() reflect.Type
	// Inner returns the implementation instance the proxy was built from.
	Inner() any
	// Get loads an aggregate and returns it as *T, or nil when the backend
	// reports no aggregate without an error.
	Get(ctx context.Context, aggregateRootID string) (any, error)
}

// Binding describes the Repository[T] capability for one aggregate type and
// knows how to build the matching Proxy.
type Binding interface {
	Aggregate() reflect.Type
	Interface() reflect.Type
	NewProxy(target any, inner any) (Proxy, error)
}

// Bind returns the Binding for aggregate type T.
func Bind[T any]() Binding {
	return binding[T]{}
}

type binding[T any] struct{}

func (binding[T]) Aggregate() reflect.Type {
	return reflect.TypeFor[T]()
}

func (binding[T]) Interface() reflect.Type {
	return reflect.TypeFor[Repository[T]]()
}

// NewProxy binds target, which must implement Repository[T], into a proxy
// that reports inner as its wrapped instance.
func (b binding[T]) NewProxy(target any, inner any) (Proxy, error) {
	repo, ok := target.(Repository[T])
	if !ok || repo == nil {
		return nil, fmt.Errorf("%T does not implement %s", target, b.Interface())
	}
	if inner == nil {
		inner = target
	}
	return &proxy[T]{repo: repo, inner: inner}, nil
}

type proxy[T any] struct {
	repo  Repository[T]
	inner any
}

func (p *proxy[T]) AggregateType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (p *proxy[T]) Inner() any {
	return p.inner
}

func (p *proxy[T]) Get(ctx context.Context, aggregateRootID string) (any, error) {
	agg, err := p.repo.Get(ctx, aggregateRootID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return nil, nil
	}
	return agg, nil
}

// As recovers the typed repository behind a proxy built by Bind[T].
func As[T any](p Proxy) (Repository[T], bool) {
	tp, ok := p.(*proxy[T])
	if !ok {
		return nil, false
	}
	return tp.repo, true
}
