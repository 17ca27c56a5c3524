// Package module describes the units scanned by the repository provider: the
// candidate implementation types they contain and the aggregate types they
// declare.
//
//	orders := module.New("ordering",
//	    module.WithAggregates(repository.Bind[Order](), repository.Bind[OrderDraft]()),
//	    module.WithTypes(module.TypeOf[*OrderRepository]()),
//	)
package module
