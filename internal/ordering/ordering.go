/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package ordering is a small order-management domain used to exercise the
// repository provider end to end.
package ordering

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/aggregatestore/errors"
	"github.com/suparena/aggregatestore/module"
	"github.com/suparena/aggregatestore/repository"
)

// Order statuses
const (
	StatusPlaced    = "placed"
	StatusCancelled = "cancelled"
)

type Line struct {
	SKU        string
	Quantity   int
	PriceCents int64
}

// Order is a placed order.
type Order struct {
	ID         string
	CustomerID string
	Lines      []Line
	Status     string
	CreatedAt  time.Time
}

// OrderDraft is an order still being edited by a customer.
type OrderDraft struct {
	ID         string
	CustomerID string
	Lines      []Line
	UpdatedAt  time.Time
}

type Customer struct {
	ID    string
	Name  string
	Email string
}

// TotalCents sums the order lines.
func (o Order) TotalCents() int64 {
	var total int64
	for _, l := range o.Lines {
		total += int64(l.Quantity) * l.PriceCents
	}
	return total
}

func NewCustomer(name, email string) Customer {
	return Customer{ID: uuid.NewString(), Name: name, Email: email}
}

func NewOrderDraft(customerID string, lines ...Line) OrderDraft {
	return OrderDraft{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Lines:      lines,
		UpdatedAt:  time.Now().UTC(),
	}
}

// ValidID reports whether id is a UUID, the only identifier format this domain issues.
func ValidID(id string) bool {
	return strfmt.IsUUID(id)
}

// Store is the storage surface the ordering repositories are built on.
type Store[T any] interface {
	repository.Repository[T]
	Put(ctx context.Context, aggregate T) error
	Delete(ctx context.Context, aggregateRootID string) error
}

// OrderRepository serves both Order and OrderDraft; each exported field is
// the repository for one aggregate.
type OrderRepository struct {
	Orders Store[Order]
	Drafts Store[OrderDraft]
}

func NewOrderRepository(orders Store[Order], drafts Store[OrderDraft]) *OrderRepository {
	return &OrderRepository{Orders: orders, Drafts: drafts}
}

// SaveDraft stores or replaces a draft.
func (r *OrderRepository) SaveDraft(ctx context.Context, draft OrderDraft) error {
	draft.UpdatedAt = time.Now().UTC()
	return r.Drafts.Put(ctx, draft)
}

// Place turns a draft into an order. The draft is removed once the order is stored.
func (r *OrderRepository) Place(ctx context.Context, draftID string) (*Order, error) {
	draft, err := r.Drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if len(draft.Lines) == 0 {
		return nil, errors.NewValidationError("lines", "draft has no lines")
	}

	order := Order{
		ID:         draft.ID,
		CustomerID: draft.CustomerID,
		Lines:      append([]Line(nil), draft.Lines...),
		Status:     StatusPlaced,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.Orders.Put(ctx, order); err != nil {
		return nil, err
	}
	if err := r.Drafts.Delete(ctx, draftID); err != nil {
		return nil, err
	}
	return &order, nil
}

// CustomerRepository serves Customer.
type CustomerRepository struct {
	store Store[Customer]
}

func NewCustomerRepository(store Store[Customer]) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Get(ctx context.Context, aggregateRootID string) (*Customer, error) {
	if !ValidID(aggregateRootID) {
		return nil, errors.NewValidationError("id", "customer id must be a UUID")
	}
	return r.store.Get(ctx, aggregateRootID)
}

func (r *CustomerRepository) Save(ctx context.Context, c Customer) error {
	if !ValidID(c.ID) {
		return errors.NewValidationError("id", "customer id must be a UUID")
	}
	return r.store.Put(ctx, c)
}

// Aggregates returns the aggregate types declared by this domain.
func Aggregates() []repository.Binding {
	return []repository.Binding{
		repository.Bind[Order](),
		repository.Bind[OrderDraft](),
		repository.Bind[Customer](),
	}
}

// Module returns the ordering module definition.
func Module() *module.Definition {
	return module.New("ordering",
		module.WithAggregates(Aggregates()...),
		module.WithTypes(
			module.TypeOf[Order](),
			module.TypeOf[OrderDraft](),
			module.TypeOf[Customer](),
			module.TypeOf[*OrderRepository](),
			module.TypeOf[*CustomerRepository](),
		),
	)
}
