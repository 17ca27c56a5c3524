/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregatestore_test

import (
	"context"
	stderrors "errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/suparena/aggregatestore"
	"github.com/suparena/aggregatestore/container"
	"github.com/suparena/aggregatestore/errors"
	"github.com/suparena/aggregatestore/internal/ordering"
	"github.com/suparena/aggregatestore/module"
	"github.com/suparena/aggregatestore/repository"
	"github.com/suparena/aggregatestore/repository/memory"
)

type Invoice struct {
	ID string
}

// BadRepositoryImpl serves Invoice but is never registered with the container.
type BadRepositoryImpl struct{}

func (BadRepositoryImpl) Get(context.Context, string) (*Invoice, error) {
	return nil, nil
}

type InvoiceStore struct {
	*memory.Store[Invoice]
}

type LegacyInvoiceStore struct {
	*memory.Store[Invoice]
}

// InvoiceRepository is an abstract capability and must never be registered.
type InvoiceRepository interface {
	repository.Repository[Invoice]
}

// staticContainer claims every type and resolves all of them to inst.
type staticContainer struct{ inst any }

func (c staticContainer) Resolve(context.Context, reflect.Type) (any, error) { return c.inst, nil }

func (staticContainer) IsComponent(reflect.Type) bool { return true }

func orderingProvider(t *testing.T, opts ...aggregatestore.Option) (*aggregatestore.Provider, ordering.Stores) {
	t.Helper()
	stores := ordering.MemoryStores()
	c := container.New()
	require.NoError(t, ordering.Register(c, stores))

	p := aggregatestore.NewProvider(c, opts...)
	require.NoError(t, p.Initialize(context.Background(), ordering.Module()))
	return p, stores
}

func TestProviderInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("OneImplementationServesTwoAggregates", func(t *testing.T) {
		p, stores := orderingProvider(t)
		assert.Equal(t, aggregatestore.StateReady, p.State())

		orderProxy, ok := p.GetRepository(reflect.TypeFor[ordering.Order]())
		require.True(t, ok)
		draftProxy, ok := p.GetRepository(reflect.TypeFor[ordering.OrderDraft]())
		require.True(t, ok)

		assert.Equal(t, reflect.TypeFor[ordering.Order](), orderProxy.AggregateType())
		assert.Equal(t, reflect.TypeFor[ordering.OrderDraft](), draftProxy.AggregateType())
		assert.NotSame(t, orderProxy, draftProxy)
		assert.Same(t, orderProxy.Inner(), draftProxy.Inner())
		assert.IsType(t, &ordering.OrderRepository{}, orderProxy.Inner())

		draft := ordering.NewOrderDraft("c-1", ordering.Line{SKU: "A", Quantity: 1, PriceCents: 100})
		require.NoError(t, stores.Drafts.Put(ctx, draft))

		got, err := draftProxy.Get(ctx, draft.ID)
		require.NoError(t, err)
		require.IsType(t, &ordering.OrderDraft{}, got)
		assert.Equal(t, draft.ID, got.(*ordering.OrderDraft).ID)

		_, err = orderProxy.Get(ctx, draft.ID)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("DirectImplementation", func(t *testing.T) {
		p, stores := orderingProvider(t)

		customer := ordering.NewCustomer("Ada", "ada@example.com")
		require.NoError(t, stores.Customers.Put(ctx, customer))

		proxy, ok := p.GetRepository(reflect.TypeFor[ordering.Customer]())
		require.True(t, ok)
		assert.IsType(t, &ordering.CustomerRepository{}, proxy.Inner())

		got, err := proxy.Get(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.(*ordering.Customer).Name)
	})

	t.Run("UnknownAggregateIsNotFound", func(t *testing.T) {
		p, _ := orderingProvider(t)

		proxy, ok := p.GetRepository(reflect.TypeFor[Invoice]())
		assert.False(t, ok)
		assert.Nil(t, proxy)

		_, ok = p.GetRepository(nil)
		assert.False(t, ok)

		_, err := p.GetRequired(reflect.TypeFor[Invoice]())
		assert.ErrorIs(t, err, errors.ErrRepositoryNotFound)
		assert.Contains(t, err.Error(), "Invoice")
	})

	t.Run("CustomerOnlyModule", func(t *testing.T) {
		c := container.New()
		require.NoError(t, container.Instance(c, ordering.NewCustomerRepository(ordering.MemoryStores().Customers)))

		p := aggregatestore.NewProvider(c)
		require.NoError(t, p.Initialize(ctx, module.New("customers",
			module.WithAggregates(ordering.Aggregates()...),
			module.WithTypes(module.TypeOf[*ordering.CustomerRepository]()),
		)))

		_, ok := p.GetRepository(reflect.TypeFor[ordering.Customer]())
		assert.True(t, ok)
		_, ok = p.GetRepository(reflect.TypeFor[ordering.Order]())
		assert.False(t, ok)
	})

	t.Run("NotAComponent", func(t *testing.T) {
		p := aggregatestore.NewProvider(container.New())
		err := p.Initialize(ctx, module.New("billing",
			module.WithAggregates(repository.Bind[Invoice]()),
			module.WithTypes(module.TypeOf[BadRepositoryImpl]()),
		))

		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
		assert.Contains(t, err.Error(), "BadRepositoryImpl")

		var cfgErr *errors.ConfigurationError
		require.True(t, stderrors.As(err, &cfgErr))
		assert.Equal(t, "billing", cfgErr.Module)
		assert.Equal(t, "github.com/suparena/aggregatestore_test.BadRepositoryImpl", cfgErr.Type)
		assert.Equal(t, aggregatestore.StateUninitialized, p.State())
	})

	t.Run("ConflictingImplementations", func(t *testing.T) {
		c := container.New()
		require.NoError(t, container.Instance(c, InvoiceStore{Store: memory.New[Invoice]()}))
		require.NoError(t, container.Instance(c, LegacyInvoiceStore{Store: memory.New[Invoice]()}))

		p := aggregatestore.NewProvider(c)
		err := p.Initialize(ctx,
			module.New("billing",
				module.WithAggregates(repository.Bind[Invoice]()),
				module.WithTypes(module.TypeOf[InvoiceStore]()),
			),
			module.New("legacy",
				module.WithTypes(module.TypeOf[LegacyInvoiceStore]()),
			),
		)

		require.Error(t, err)
		var conflict *errors.ConflictError
		require.True(t, stderrors.As(err, &conflict))
		assert.Contains(t, conflict.Aggregate, "Invoice")
		assert.Contains(t, conflict.Existing, "InvoiceStore")
		assert.Contains(t, conflict.Duplicate, "LegacyInvoiceStore")
		assert.Equal(t, aggregatestore.StateUninitialized, p.State())
	})

	t.Run("ResolveFailure", func(t *testing.T) {
		boom := stderrors.New("table not reachable")
		c := container.New()
		require.NoError(t, container.Provide(c, func(context.Context) (InvoiceStore, error) {
			return InvoiceStore{}, boom
		}))

		p := aggregatestore.NewProvider(c)
		err := p.Initialize(ctx, module.New("billing",
			module.WithAggregates(repository.Bind[Invoice]()),
			module.WithTypes(module.TypeOf[InvoiceStore]()),
		))

		assert.True(t, errors.IsConstruction(err))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Canceled", func(t *testing.T) {
		c := container.New()
		require.NoError(t, ordering.Register(c, ordering.MemoryStores()))
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		p := aggregatestore.NewProvider(c)
		err := p.Initialize(canceled, ordering.Module())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, aggregatestore.StateUninitialized, p.State())

		require.NoError(t, p.Initialize(ctx, ordering.Module()))
	})

	t.Run("IncompatibleInstance", func(t *testing.T) {
		type unrelated struct{ hidden *ordering.CustomerRepository }
		for _, inst := range []any{&struct{}{}, &unrelated{hidden: &ordering.CustomerRepository{}}} {
			p := aggregatestore.NewProvider(staticContainer{inst: inst})
			err := p.Initialize(ctx, ordering.Module())

			require.True(t, errors.IsConstruction(err), "got %v", err)
			assert.Equal(t, aggregatestore.StateUninitialized, p.State())
		}
	})

	t.Run("NilFacet", func(t *testing.T) {
		c := container.New()
		require.NoError(t, container.Instance(c, ordering.NewOrderRepository(ordering.MemoryStores().Orders, nil)))

		p := aggregatestore.NewProvider(c)
		err := p.Initialize(ctx, ordering.Module())

		require.True(t, errors.IsConstruction(err), "got %v", err)
		assert.Contains(t, err.Error(), "Drafts")
	})

	t.Run("AllOrNothing", func(t *testing.T) {
		stores := ordering.MemoryStores()
		c := container.New()
		require.NoError(t, ordering.Register(c, stores))

		p := aggregatestore.NewProvider(c)
		err := p.Initialize(ctx,
			ordering.Module(),
			module.New("billing",
				module.WithAggregates(repository.Bind[Invoice]()),
				module.WithTypes(module.TypeOf[BadRepositoryImpl]()),
			),
		)
		require.Error(t, err)

		_, ok := p.GetRepository(reflect.TypeFor[ordering.Order]())
		assert.False(t, ok, "no repository may be visible after a failed initialization")
		assert.Nil(t, p.Aggregates())

		require.NoError(t, p.Initialize(ctx, ordering.Module()))
		_, ok = p.GetRepository(reflect.TypeFor[ordering.Order]())
		assert.True(t, ok)
	})

	t.Run("SecondInitializeRejected", func(t *testing.T) {
		p, _ := orderingProvider(t)

		err := p.Initialize(ctx, ordering.Module())
		assert.ErrorIs(t, err, errors.ErrAlreadyInitialized)
		assert.Equal(t, aggregatestore.StateReady, p.State())
	})

	t.Run("SkipsNonConcreteAndDuplicateCandidates", func(t *testing.T) {
		c := container.New()
		require.NoError(t, container.Instance(c, InvoiceStore{Store: memory.New[Invoice]()}))

		m := module.New("billing",
			module.WithAggregates(repository.Bind[Invoice](), repository.Bind[Invoice]()),
			module.WithTypes(
				module.TypeOf[InvoiceRepository](),
				module.TypeOf[InvoiceStore](),
				module.TypeOf[InvoiceStore](),
				nil,
			),
		)
		p := aggregatestore.NewProvider(c)
		require.NoError(t, p.Initialize(ctx, m, m, nil))

		regs := p.Aggregates()
		require.Len(t, regs, 1)
		assert.Equal(t, reflect.TypeFor[InvoiceStore](), regs[0].Implementation)
	})

	t.Run("UndeclaredAggregateIgnored", func(t *testing.T) {
		p := aggregatestore.NewProvider(container.New())
		require.NoError(t, p.Initialize(ctx, module.New("billing",
			module.WithTypes(module.TypeOf[BadRepositoryImpl]()),
		)))
		assert.Empty(t, p.Aggregates())
	})

	t.Run("NilContainer", func(t *testing.T) {
		p := aggregatestore.NewProvider(nil)
		err := p.Initialize(ctx, ordering.Module())
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestProviderBeforeReady(t *testing.T) {
	p := aggregatestore.NewProvider(container.New())

	assert.Equal(t, aggregatestore.StateUninitialized, p.State())
	_, ok := p.GetRepository(reflect.TypeFor[ordering.Order]())
	assert.False(t, ok)
	assert.Nil(t, p.Aggregates())
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	p, stores := orderingProvider(t)

	order := ordering.Order{ID: "o-1", CustomerID: "c-1", Status: ordering.StatusPlaced}
	require.NoError(t, stores.Orders.Put(ctx, order))

	orders, ok := aggregatestore.Lookup[ordering.Order](p)
	require.True(t, ok)
	got, err := orders.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.CustomerID)

	_, ok = aggregatestore.Lookup[Invoice](p)
	assert.False(t, ok)
}

func TestAggregates(t *testing.T) {
	p, _ := orderingProvider(t)

	regs := p.Aggregates()
	require.Len(t, regs, 3)

	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Aggregate.Name()
		assert.Equal(t, "ordering", r.Module)
	}
	assert.Equal(t, []string{"Customer", "Order", "OrderDraft"}, names)
	assert.Equal(t, "", regs[0].Facet)
	assert.Equal(t, "Orders", regs[1].Facet)
	assert.Equal(t, "Drafts", regs[2].Facet)

	regs[0].Module = "mutated"
	assert.Equal(t, "ordering", p.Aggregates()[0].Module)
}

func TestConcurrentLookups(t *testing.T) {
	p, _ := orderingProvider(t)
	types := []reflect.Type{
		reflect.TypeFor[ordering.Order](),
		reflect.TypeFor[ordering.OrderDraft](),
		reflect.TypeFor[ordering.Customer](),
		reflect.TypeFor[Invoice](),
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				typ := types[(i+j)%len(types)]
				_, ok := p.GetRepository(typ)
				if ok != (typ != reflect.TypeFor[Invoice]()) {
					t.Errorf("unexpected lookup result for %s", typ)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestProviderLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	orderingProvider(t, aggregatestore.WithLogger(zap.New(core)))

	assert.Equal(t, 3, logs.FilterMessage("registered aggregate repository").Len())
	summary := logs.FilterMessage("aggregate repositories initialized").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(3), summary[0].ContextMap()["repositories"])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", aggregatestore.StateUninitialized.String())
	assert.Equal(t, "initializing", aggregatestore.StateInitializing.String())
	assert.Equal(t, "ready", aggregatestore.StateReady.String())
	assert.Equal(t, "state(7)", aggregatestore.State(7).String())
}
