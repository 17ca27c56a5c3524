/*
Package ddb provides a DynamoDB implementation of repository.Repository[T].

The Store supports:
  - Single-table design patterns
  - Macro-based key expansion (e.g., "ORDER#{ID}")
  - Automatic EntityType injection for polymorphic storage

Macro Expansion:
Keys are built from an index map whose templates reference aggregate fields:

	indexMap := map[string]string{
	    "PK": "ORDER#{ID}",       // Becomes "ORDER#123"
	    "SK": "ORDER#{ID}",
	    "GSI1PK": "{CustomerID}", // Direct field value
	}

	client, _ := ddb.NewClient(ctx, ddb.ClientConfig{Region: "us-east-1"})
	orders, _ := ddb.New[ordering.Order](client, "aggregates", indexMap)

Get and Delete expand every macro with the aggregate root ID, so lookups by
ID work for any template built around a single identifier.
*/
package ddb
