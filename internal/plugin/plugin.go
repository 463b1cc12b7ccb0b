package plugin

import (
	"context"

	"github.com/vk/passgrid/internal/extension"
)

// Plugin contributes passes and constraints to a build.
type Plugin interface {
	// QualifiedName is the dot-separated unique plugin name, e.g.
	// "com.example.optimizer". It forms the first half of every pass key the
	// plugin declares.
	QualifiedName() string
	// DisplayName is a human-readable name used in diagnostics.
	DisplayName() string
	// Configure declares the plugin's passes and constraints.
	Configure(info *Info)
}

// Env is the build environment passes execute against.
type Env interface {
	extension.Env
	// Extension returns the active context instance for id, if any.
	Extension(id extension.ID) (extension.Context, bool)
}

// Pass is the executable body of a declared pass.
type Pass interface {
	Execute(ctx context.Context, env Env) error
}

// PassFunc adapts a function to the Pass interface.
type PassFunc func(ctx context.Context, env Env) error

// Execute calls f.
func (f PassFunc) Execute(ctx context.Context, env Env) error {
	return f(ctx, env)
}

// Noop is a Pass that does nothing.
var Noop Pass = PassFunc(func(context.Context, Env) error { return nil })

// InternalName is the qualified name of the sentinel plugin that owns passes
// synthesized by the resolver.
const InternalName = "passgrid.internal"

// Internal is the sentinel plugin that owns synthesized passes.
var Internal Plugin = internalPlugin{}

type internalPlugin struct{}

func (internalPlugin) QualifiedName() string { return InternalName }
func (internalPlugin) DisplayName() string   { return "passgrid" }
func (internalPlugin) Configure(*Info)       {}

// Func is a Plugin built from a name and a configure function. It is handy for
// small plugins and tests.
type Func struct {
	Name        string
	Display     string
	ConfigureFn func(info *Info)
}

func (f *Func) QualifiedName() string { return f.Name }

func (f *Func) DisplayName() string {
	if f.Display != "" {
		return f.Display
	}
	return f.Name
}

func (f *Func) Configure(info *Info) {
	if f.ConfigureFn != nil {
		f.ConfigureFn(info)
	}
}
