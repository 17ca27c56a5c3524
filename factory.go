/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregatestore

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/suparena/aggregatestore/errors"
	"github.com/suparena/aggregatestore/repository"
)

// proxyFactory dispatches proxy construction to the binding declared for each
// aggregate type.
type proxyFactory struct {
	bindings map[reflect.Type]repository.Binding
	order    []repository.Binding
}

func newProxyFactory() *proxyFactory {
	return &proxyFactory{bindings: make(map[reflect.Type]repository.Binding)}
}

// add declares an aggregate type. Repeated declarations are ignored.
func (f *proxyFactory) add(b repository.Binding) {
	if b == nil {
		return
	}
	if _, exists := f.bindings[b.Aggregate()]; exists {
		return
	}
	f.bindings[b.Aggregate()] = b
	f.order = append(f.order, b)
}

func (f *proxyFactory) catalog() []repository.Binding {
	return f.order
}

// Build binds instance, or the field of instance named by the claim, into a
// proxy for claim.Aggregate.
func (f *proxyFactory) Build(claim Claim, instance any) (repository.Proxy, error) {
	fail := func(err error) error {
		return errors.NewConstructionError(claim.Source(), typeName(claim.Aggregate), err)
	}

	b, ok := f.bindings[claim.Aggregate]
	if !ok {
		return nil, fail(stderrors.New("aggregate type is not declared by any module"))
	}
	if isNil(reflect.ValueOf(instance)) {
		return nil, fail(stderrors.New("container returned a nil instance"))
	}
	if claim.Implementation != nil && !reflect.TypeOf(instance).AssignableTo(claim.Implementation) {
		return nil, fail(fmt.Errorf("container returned %T, want %s", instance, typeName(claim.Implementation)))
	}

	target := instance
	if claim.Field != nil {
		v := reflect.Indirect(reflect.ValueOf(instance))
		if v.Kind() != reflect.Struct {
			return nil, fail(fmt.Errorf("instance %T is not a struct", instance))
		}
		fv, err := v.FieldByIndexErr(claim.Field)
		if err != nil {
			return nil, fail(err)
		}
		if isNil(fv) {
			return nil, fail(fmt.Errorf("field %s is nil", claim.FieldName))
		}
		target = fv.Interface()
	}

	proxy, err := b.NewProxy(target, instance)
	if err != nil {
		return nil, fail(err)
	}
	return proxy, nil
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
