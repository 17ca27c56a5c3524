/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ordering

import (
	"fmt"

	"github.com/suparena/aggregatestore/container"
	"github.com/suparena/aggregatestore/repository/ddb"
	"github.com/suparena/aggregatestore/repository/memory"
)

// Stores holds one store per ordering aggregate.
type Stores struct {
	Orders    Store[Order]
	Drafts    Store[OrderDraft]
	Customers Store[Customer]
}

// DefaultIndexMaps are the single-table key templates per aggregate name.
var DefaultIndexMaps = map[string]map[string]string{
	"Order": {
		"PK":     "ORDER#{ID}",
		"SK":     "ORDER#{ID}",
		"GSI1PK": "CUSTOMER#{CustomerID}",
		"GSI1SK": "ORDER#{ID}",
	},
	"OrderDraft": {
		"PK":     "DRAFT#{ID}",
		"SK":     "DRAFT#{ID}",
		"GSI1PK": "CUSTOMER#{CustomerID}",
		"GSI1SK": "DRAFT#{ID}",
	},
	"Customer": {
		"PK": "CUSTOMER#{ID}",
		"SK": "CUSTOMER#{ID}",
	},
}

// MemoryStores returns in-memory stores keyed by aggregate ID.
func MemoryStores() Stores {
	return Stores{
		Orders:    memory.New[Order]().WithKeyFunc(func(o Order) string { return o.ID }),
		Drafts:    memory.New[OrderDraft]().WithKeyFunc(func(d OrderDraft) string { return d.ID }),
		Customers: memory.New[Customer]().WithKeyFunc(func(c Customer) string { return c.ID }),
	}
}

// DynamoStores returns DynamoDB stores sharing one table. indexMaps entries
// override DefaultIndexMaps per aggregate name.
func DynamoStores(client ddb.API, table string, indexMaps map[string]map[string]string) (Stores, error) {
	idx := func(name string) map[string]string {
		if m, ok := indexMaps[name]; ok {
			return m
		}
		return DefaultIndexMaps[name]
	}

	orders, err := ddb.New[Order](client, table, idx("Order"))
	if err != nil {
		return Stores{}, fmt.Errorf("order store: %w", err)
	}
	drafts, err := ddb.New[OrderDraft](client, table, idx("OrderDraft"))
	if err != nil {
		return Stores{}, fmt.Errorf("order draft store: %w", err)
	}
	customers, err := ddb.New[Customer](client, table, idx("Customer"))
	if err != nil {
		return Stores{}, fmt.Errorf("customer store: %w", err)
	}
	return Stores{Orders: orders, Drafts: drafts, Customers: customers}, nil
}

// Register adds the ordering repositories to c as components.
func Register(c *container.Registry, s Stores) error {
	if err := container.Instance(c, NewOrderRepository(s.Orders, s.Drafts)); err != nil {
		return err
	}
	return container.Instance(c, NewCustomerRepository(s.Customers))
}
