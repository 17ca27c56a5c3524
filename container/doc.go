/*
Package container defines the component container consulted during provider
initialization, plus a small singleton implementation.

Only types registered with the container count as managed components:

	c := container.New()
	container.Provide(c, func(ctx context.Context) (*ordering.OrderRepository, error) {
	    return ordering.NewOrderRepository(orders, drafts), nil
	})

Each registered type is constructed at most once; later Resolve calls return
the same instance.
*/
package container
