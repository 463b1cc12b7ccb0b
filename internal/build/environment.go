package build

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/extension"
)

// Environment is the state shared by the passes of one build. It implements
// plugin.Env.
type Environment struct {
	catalog *extension.Catalog

	mu     sync.RWMutex
	values map[string]any
	active map[extension.ID]extension.Context
	// opened keeps active ids in activation order.
	opened []extension.ID
}

// NewEnvironment creates an environment whose extension contexts come from
// catalog. Ids without a descriptor or without a factory get a context that
// does nothing.
func NewEnvironment(catalog *extension.Catalog) *Environment {
	return &Environment{
		catalog: catalog,
		values:  make(map[string]any),
		active:  make(map[extension.ID]extension.Context),
	}
}

// Value returns a value stored with SetValue.
func (e *Environment) Value(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[key]
	return v, ok
}

// SetValue stores a build-scoped value.
func (e *Environment) SetValue(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[key] = value
}

// Extension returns the active context for id.
func (e *Environment) Extension(id extension.ID) (extension.Context, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.active[id]
	return c, ok
}

// Active returns the active extension ids in activation order.
func (e *Environment) Active() []extension.ID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]extension.ID(nil), e.opened...)
}

func (e *Environment) activate(ctx context.Context, id extension.ID) error {
	e.mu.RLock()
	_, exists := e.active[id]
	e.mu.RUnlock()
	if exists {
		return fmt.Errorf("extension %q is already active", id)
	}

	c := e.instantiate(ctx, id)
	if err := c.OnActivate(ctx, e); err != nil {
		return fmt.Errorf("failed to activate extension %q: %w", id, err)
	}

	e.mu.Lock()
	e.active[id] = c
	e.opened = append(e.opened, id)
	e.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Extension activated.", "extension", id)
	return nil
}

func (e *Environment) deactivate(ctx context.Context, id extension.ID) error {
	e.mu.Lock()
	c, ok := e.active[id]
	if ok {
		delete(e.active, id)
		for i, opened := range e.opened {
			if opened == id {
				e.opened = append(e.opened[:i], e.opened[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("extension %q is not active", id)
	}

	if err := c.OnDeactivate(ctx, e); err != nil {
		return fmt.Errorf("failed to deactivate extension %q: %w", id, err)
	}
	ctxlog.FromContext(ctx).Debug("Extension deactivated.", "extension", id)
	return nil
}

// closeAll deactivates everything still active, newest first. It keeps going
// after a failure and returns every error it saw.
func (e *Environment) closeAll(ctx context.Context) []error {
	var errs []error
	for {
		open := e.Active()
		if len(open) == 0 {
			return errs
		}
		if err := e.deactivate(ctx, open[len(open)-1]); err != nil {
			errs = append(errs, err)
		}
	}
}

func (e *Environment) instantiate(ctx context.Context, id extension.ID) extension.Context {
	d, ok := e.catalog.Lookup(id)
	if !ok || d.New == nil {
		ctxlog.FromContext(ctx).Debug("No context factory for extension, using a no-op context.", "extension", id)
		return nopContext{}
	}
	if c := d.New(); c != nil {
		return c
	}
	return nopContext{}
}

type nopContext struct{}

func (nopContext) OnActivate(context.Context, extension.Env) error   { return nil }
func (nopContext) OnDeactivate(context.Context, extension.Env) error { return nil }
