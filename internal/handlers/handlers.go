// Package handlers maps the names used in plugin manifests to compiled pass
// bodies.
package handlers

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/passgrid/internal/plugin"
)

// Factory builds a pass body from the arguments a manifest gives it.
type Factory func(args map[string]string) (plugin.Pass, error)

// Module is a bundle of handlers compiled into the binary.
type Module interface {
	Register(h *Handlers)
}

// NoopName is the handler used by manifest passes that do not name one.
const NoopName = "noop"

// Handlers holds all the registered handlers.
type Handlers struct {
	all map[string]Factory
}

// New creates a registry that already knows the noop handler.
func New() *Handlers {
	h := &Handlers{all: make(map[string]Factory)}
	h.Register(NoopName, func(map[string]string) (plugin.Pass, error) { return plugin.Noop, nil })
	return h
}

// Register adds a handler. Registering a name twice is a programming error.
func (h *Handlers) Register(name string, f Factory) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("pass handler with name '%s' already registered", name))
	}
	slog.Debug("Registering pass handler.", "name", name)
	h.all[name] = f
}

// Has reports whether a handler named name exists.
func (h *Handlers) Has(name string) bool {
	_, ok := h.all[name]
	return ok
}

// Names returns every handler name in ascending order.
func (h *Handlers) Names() []string {
	names := make([]string, 0, len(h.all))
	for name := range h.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the pass body for handler name.
func (h *Handlers) Build(name string, args map[string]string) (plugin.Pass, error) {
	f, ok := h.all[name]
	if !ok {
		return nil, fmt.Errorf("unknown pass handler %q", name)
	}
	pass, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", name, err)
	}
	return pass, nil
}
