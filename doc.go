/*
Package aggregatestore maps aggregate types to the repositories that serve them.

A Provider scans the candidate types of a set of modules, keeps the ones that
implement repository.Repository[T] for a declared aggregate type T, checks that
each is a component managed by the container, and registers a type-erased
repository.Proxy per aggregate type.

The library follows a declare → initialize → lookup workflow:
  - Declare: modules list their aggregate types with repository.Bind[T] and their candidate implementation types
  - Initialize: Provider.Initialize runs once during bootstrap, all or nothing
  - Lookup: GetRepository is a lock-free read, safe for concurrent use

Basic Usage:

	c := container.New()
	container.Instance(c, ordering.NewOrderRepository(orders, drafts))

	p := aggregatestore.NewProvider(c, aggregatestore.WithLogger(logger))
	if err := p.Initialize(ctx, ordering.Module()); err != nil {
	    return err
	}

	proxy, ok := p.GetRepository(reflect.TypeFor[ordering.Order]())
	if !ok {
	    // no repository serves Order
	}
	agg, err := proxy.Get(ctx, "9d2c...")

	// or, when the aggregate type is known statically
	orders, ok := aggregatestore.Lookup[ordering.Order](p)

One implementation may serve several aggregates by exposing one exported
field per aggregate; all resulting proxies wrap the same instance.

Initialization fails with errors.ConfigurationError when a matching type is
not a component, errors.ConstructionError when it cannot be resolved or bound,
and errors.ConflictError when two implementations serve the same aggregate.
*/
package aggregatestore
