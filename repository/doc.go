/*
Package repository defines the aggregate repository capability and its
type-erased proxy.

The capability is Repository[T], which loads aggregates of type T:

	type Repository[T any] interface {
	    Get(ctx context.Context, aggregateRootID string) (*T, error)
	}

Because Go cannot enumerate the instantiations of a generic interface at
runtime, each aggregate type is declared once with Bind:

	bindings := []repository.Binding{
	    repository.Bind[ordering.Order](),
	    repository.Bind[ordering.OrderDraft](),
	}

A Binding exposes the reflect.Type of Repository[T] for structural matching
and builds a Proxy for a concrete implementation. Callers that only know the
aggregate type as a value use Proxy.Get; callers that know T use As:

	orders, ok := repository.As[ordering.Order](proxy)

Implementations:
  - ddb: DynamoDB backend using index-map key templates
  - memory: in-memory backend for tests and local runs
*/
package repository
