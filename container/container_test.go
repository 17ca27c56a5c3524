/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package container

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type service struct {
	name string
}

type other struct{}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolveIsSingleton", func(t *testing.T) {
		c := New()
		calls := 0
		require.NoError(t, Provide(c, func(context.Context) (*service, error) {
			calls++
			return &service{name: "svc"}, nil
		}))

		typ := reflect.TypeFor[*service]()
		assert.True(t, c.IsComponent(typ))

		first, err := c.Resolve(ctx, typ)
		require.NoError(t, err)
		second, err := c.Resolve(ctx, typ)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "svc", first.(*service).name)
	})

	t.Run("Instance", func(t *testing.T) {
		c := New()
		svc := &service{name: "fixed"}
		require.NoError(t, Instance(c, svc))

		got, err := c.Resolve(ctx, reflect.TypeFor[*service]())
		require.NoError(t, err)
		assert.Same(t, svc, got)
		assert.Len(t, c.Types(), 1)
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		c := New()
		require.NoError(t, Instance(c, &service{}))
		err := Instance(c, &service{})
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("NotRegistered", func(t *testing.T) {
		c := New()
		assert.False(t, c.IsComponent(reflect.TypeFor[*other]()))

		_, err := c.Resolve(ctx, reflect.TypeFor[*other]())
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("FactoryError", func(t *testing.T) {
		c := New()
		boom := errors.New("boom")
		require.NoError(t, Provide(c, func(context.Context) (*service, error) {
			return nil, boom
		}))

		_, err := c.Resolve(ctx, reflect.TypeFor[*service]())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("FactoryReturnsWrongType", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Register(reflect.TypeFor[*service](), func(context.Context) (any, error) {
			return &other{}, nil
		}))

		_, err := c.Resolve(ctx, reflect.TypeFor[*service]())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "factory returned")
	})

	t.Run("FactoryReturnsNil", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Register(reflect.TypeFor[*service](), func(context.Context) (any, error) {
			return nil, nil
		}))

		_, err := c.Resolve(ctx, reflect.TypeFor[*service]())
		require.Error(t, err)
	})

	t.Run("NilFactory", func(t *testing.T) {
		c := New()
		assert.ErrorIs(t, c.Register(reflect.TypeFor[*service](), nil), ErrFactoryRequired)
		assert.ErrorIs(t, Provide[*service](c, nil), ErrFactoryRequired)
	})
}
