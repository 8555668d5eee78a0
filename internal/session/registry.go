// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
)

// Registry is the explicit, process-local collection of Session
// Controllers keyed by switch name (spec §9: "make the Session Controller
// an explicit collection keyed by switch name; inject the collection into
// anything that needs a peer session, e.g. Migrate").
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]*Controller)}
}

// Add registers a controller under its own name. Re-registering the same
// name replaces the previous entry.
func (r *Registry) Add(c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[c.Name] = c
}

// Get returns the controller for name, or a Warning-class lookup failure
// (spec §7's "unknown switch name" example — recoverable, not a hard
// diagnostics.Error) if it is not registered.
func (r *Registry) Get(name string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controllers[name]
	if !ok {
		return nil, diagnostics.NewWarning("unknown switch %q", name)
	}
	return c, nil
}

// ConnectAll dials every registered switch concurrently, one goroutine per
// switch (spec §5's registry fan-out), while each Controller still
// serializes its own primitives internally. It returns the first error
// encountered, canceling the remaining in-flight dials.
func (r *Registry) ConnectAll(ctx context.Context) error {
	r.mu.RLock()
	controllers := make([]*Controller, 0, len(r.controllers))
	for _, c := range r.controllers {
		controllers = append(controllers, c)
	}
	r.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range controllers {
		c := c
		g.Go(func() error {
			return c.Connect(gctx)
		})
	}
	return g.Wait()
}

// Names returns every registered switch name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	return names
}
