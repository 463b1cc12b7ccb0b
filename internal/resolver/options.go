package resolver

import (
	"log/slog"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/plugin"
)

// Compatibility reports whether extension id may stay active while pass runs.
type Compatibility func(pass *plugin.PassDecl, id extension.ID) bool

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for diagnostics during resolution.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCatalog sets the extension catalog used to expand requirements along
// extension dependencies and to order activations.
func WithCatalog(c *extension.Catalog) Option {
	return func(r *Resolver) { r.catalog = c }
}

// WithCompatibility replaces the default compatibility predicate, which
// accepts an extension when the pass lists it as required or compatible.
func WithCompatibility(fn Compatibility) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.compatible = fn
		}
	}
}
