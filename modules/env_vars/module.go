// Package env_vars provides pass handlers that seed build values: "env_vars"
// copies process environment variables and "set_values" stores literals.
package env_vars

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/internal/plugin"
)

// Module implements handlers.Module for this package.
type Module struct {
	// Lookup reads environment variables. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

func (m *Module) lookup(key string) (string, bool) {
	if m.Lookup == nil {
		return os.LookupEnv(key)
	}
	return m.Lookup(key)
}

// newEnvVars maps each build value name in args to the environment variable
// named by its value. Missing variables are an error.
func (m *Module) newEnvVars(args map[string]string) (plugin.Pass, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("env_vars needs at least one `value = \"VARIABLE\"` argument")
	}
	return plugin.PassFunc(func(ctx context.Context, env plugin.Env) error {
		for key, variable := range args {
			value, ok := m.lookup(variable)
			if !ok {
				return fmt.Errorf("environment variable %s is not set", variable)
			}
			env.SetValue(key, value)
			ctxlog.FromContext(ctx).Debug("Build value set from environment.", "key", key, "variable", variable)
		}
		return nil
	}), nil
}

func newSetValues(args map[string]string) (plugin.Pass, error) {
	return plugin.PassFunc(func(ctx context.Context, env plugin.Env) error {
		for key, value := range args {
			env.SetValue(key, value)
		}
		return nil
	}), nil
}

// Register registers the handlers.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register("env_vars", m.newEnvVars)
	h.Register("set_values", newSetValues)
}
