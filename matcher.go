/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregatestore

import (
	"reflect"

	"github.com/suparena/aggregatestore/errors"
	"github.com/suparena/aggregatestore/repository"
)

// Claim records that an implementation type serves an aggregate type, either
// through its own method set or through one of its exported struct fields.
type Claim struct {
	Aggregate      reflect.Type
	Implementation reflect.Type
	// Field is the index path of the serving field; nil when the
	// implementation itself is the repository.
	Field     []int
	FieldName string
}

// Source names the implementation, qualified by the field for facet claims.
func (c Claim) Source() string {
	if c.FieldName == "" {
		return typeName(c.Implementation)
	}
	return typeName(c.Implementation) + "." + c.FieldName
}

// MatchedAggregateTypes returns the aggregate types in catalog that t serves.
//
// t serves T when t implements repository.Repository[T]. A struct type (or
// pointer to one) also serves T through each exported field whose type
// implements repository.Repository[T], which lets one implementation serve
// several aggregates. A direct match shadows field matches for the same T.
// Interface types never match.
func MatchedAggregateTypes(t reflect.Type, catalog []repository.Binding) ([]Claim, error) {
	if !isConcrete(t) {
		return nil, nil
	}

	st := structOf(t)
	var claims []Claim
	for _, b := range catalog {
		iface := b.Interface()
		if t.Implements(iface) {
			claims = append(claims, Claim{Aggregate: b.Aggregate(), Implementation: t})
			continue
		}
		if st == nil {
			continue
		}

		var facet *Claim
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if !f.IsExported() || !f.Type.Implements(iface) {
				continue
			}
			c := Claim{Aggregate: b.Aggregate(), Implementation: t, Field: f.Index, FieldName: f.Name}
			if facet != nil {
				return nil, errors.NewConflictError(typeName(b.Aggregate()), facet.Source(), c.Source())
			}
			facet = &c
		}
		if facet != nil {
			claims = append(claims, *facet)
		}
	}
	return claims, nil
}

func isConcrete(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Interface
}

func structOf(t reflect.Type) reflect.Type {
	switch {
	case t.Kind() == reflect.Struct:
		return t
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return t.Elem()
	}
	return nil
}

// typeName qualifies named types with their full import path.
func typeName(t reflect.Type) string {
	switch {
	case t == nil:
		return "<nil>"
	case t.Kind() == reflect.Pointer:
		return "*" + typeName(t.Elem())
	case t.Name() != "" && t.PkgPath() != "":
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
