package env_vars

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgrid/internal/build"
	"github.com/vk/passgrid/internal/handlers"
)

func TestEnvVars(t *testing.T) {
	h := handlers.New()
	(&Module{Lookup: func(key string) (string, bool) {
		if key == "HOME" {
			return "/home/test", true
		}
		return "", false
	}}).Register(h)

	_, err := h.Build("env_vars", nil)
	assert.Error(t, err)

	env := build.NewEnvironment(nil)
	pass, err := h.Build("env_vars", map[string]string{"home": "HOME"})
	require.NoError(t, err)
	require.NoError(t, pass.Execute(context.Background(), env))

	v, ok := env.Value("home")
	require.True(t, ok)
	assert.Equal(t, "/home/test", v)

	pass, err = h.Build("env_vars", map[string]string{"missing": "NOPE"})
	require.NoError(t, err)
	assert.ErrorContains(t, pass.Execute(context.Background(), env), "NOPE is not set")
}

func TestSetValues(t *testing.T) {
	h := handlers.New()
	(&Module{}).Register(h)

	env := build.NewEnvironment(nil)
	pass, err := h.Build("set_values", map[string]string{"target": "release"})
	require.NoError(t, err)
	require.NoError(t, pass.Execute(context.Background(), env))

	v, _ := env.Value("target")
	assert.Equal(t, "release", v)
}
