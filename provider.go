/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregatestore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/suparena/aggregatestore/container"
	"github.com/suparena/aggregatestore/errors"
	"github.com/suparena/aggregatestore/module"
	"github.com/suparena/aggregatestore/repository"
)

// State is the lifecycle state of a Provider.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Registration describes one aggregate repository known to a Provider.
type Registration struct {
	Aggregate      reflect.Type
	Implementation reflect.Type
	// Facet is the serving field of Implementation, empty for direct matches.
	Facet  string
	Module string
}

type snapshot struct {
	proxies       map[reflect.Type]repository.Proxy
	registrations []Registration
}

// Provider maps aggregate types to repository proxies. It is populated once
// by Initialize and is read-only afterwards, so lookups need no locking.
type Provider struct {
	container container.Container
	logger    *zap.Logger
	state     atomic.Int32
	snap      atomic.Pointer[snapshot]
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used during initialization.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider creates a Provider that resolves implementations from c.
func NewProvider(c container.Container, opts ...Option) *Provider {
	p := &Provider{
		container: c,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Provider) State() State {
	return State(p.state.Load())
}

// Initialize scans modules for repository implementations and registers a
// proxy for every aggregate type they serve. It either registers everything
// or nothing: on error the provider stays uninitialized and empty.
func (p *Provider) Initialize(ctx context.Context, modules ...module.Module) error {
	if !p.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		return fmt.Errorf("%w: provider is %s", errors.ErrAlreadyInitialized, p.State())
	}

	ready := false
	defer func() {
		if !ready {
			p.state.Store(int32(StateUninitialized))
		}
	}()

	snap, err := p.build(ctx, modules)
	if err != nil {
		p.logger.Error("aggregate repository initialization failed", zap.Error(err))
		return err
	}

	p.snap.Store(snap)
	p.state.Store(int32(StateReady))
	ready = true
	p.logger.Info("aggregate repositories initialized",
		zap.Int("modules", len(modules)),
		zap.Int("repositories", len(snap.proxies)),
	)
	return nil
}

func (p *Provider) build(ctx context.Context, modules []module.Module) (*snapshot, error) {
	if p.container == nil {
		return nil, errors.NewValidationError("container", "component container is required")
	}

	factory := newProxyFactory()
	for _, m := range modules {
		if m == nil {
			continue
		}
		for _, b := range m.Aggregates() {
			factory.add(b)
		}
	}
	catalog := factory.catalog()

	snap := &snapshot{proxies: make(map[reflect.Type]repository.Proxy)}
	owners := make(map[reflect.Type]Claim)
	instances := make(map[reflect.Type]any)
	scanned := make(map[reflect.Type]bool)

	for _, m := range modules {
		if m == nil {
			continue
		}
		for _, t := range m.Types() {
			if t == nil || scanned[t] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scanned[t] = true

			claims, err := MatchedAggregateTypes(t, catalog)
			if err != nil {
				return nil, err
			}
			if len(claims) == 0 {
				continue
			}
			if err := ValidateComponent(p.container, t, m.Name()); err != nil {
				return nil, err
			}

			inst, ok := instances[t]
			if !ok {
				inst, err = p.container.Resolve(ctx, t)
				if err != nil {
					return nil, errors.NewConstructionError(typeName(t), "", err)
				}
				instances[t] = inst
			}

			for _, claim := range claims {
				if existing, dup := owners[claim.Aggregate]; dup {
					return nil, errors.NewConflictError(typeName(claim.Aggregate), existing.Source(), claim.Source())
				}
				proxy, err := factory.Build(claim, inst)
				if err != nil {
					return nil, err
				}

				owners[claim.Aggregate] = claim
				snap.proxies[claim.Aggregate] = proxy
				snap.registrations = append(snap.registrations, Registration{
					Aggregate:      claim.Aggregate,
					Implementation: t,
					Facet:          claim.FieldName,
					Module:         m.Name(),
				})
				p.logger.Debug("registered aggregate repository",
					zap.Stringer("aggregate", claim.Aggregate),
					zap.String("implementation", claim.Source()),
					zap.String("module", m.Name()),
				)
			}
		}
	}

	sort.Slice(snap.registrations, func(i, j int) bool {
		return snap.registrations[i].Aggregate.String() < snap.registrations[j].Aggregate.String()
	})
	return snap, nil
}

// GetRepository returns the proxy serving aggregateType. The second result
// is false when no repository serves it or the provider is not ready.
func (p *Provider) GetRepository(aggregateType reflect.Type) (repository.Proxy, bool) {
	snap := p.snap.Load()
	if snap == nil {
		return nil, false
	}
	proxy, ok := snap.proxies[aggregateType]
	return proxy, ok
}

// GetRequired is GetRepository for callers that cannot proceed without a
// repository.
func (p *Provider) GetRequired(aggregateType reflect.Type) (repository.Proxy, error) {
	proxy, ok := p.GetRepository(aggregateType)
	if !ok {
		return nil, fmt.Errorf("%w: aggregate %s", errors.ErrRepositoryNotFound, typeName(aggregateType))
	}
	return proxy, nil
}

// Aggregates returns the registrations sorted by aggregate type name, or nil
// before the provider is ready.
func (p *Provider) Aggregates() []Registration {
	snap := p.snap.Load()
	if snap == nil {
		return nil
	}
	out := make([]Registration, len(snap.registrations))
	copy(out, snap.registrations)
	return out
}

// Lookup returns the typed repository serving T.
func Lookup[T any](p *Provider) (repository.Repository[T], bool) {
	proxy, ok := p.GetRepository(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return repository.As[T](proxy)
}
