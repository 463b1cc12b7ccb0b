package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgrid/internal/resolver"
)

const testManifest = `
plugin "com.example.greeter" {
  extension "com.example.console" {}

  sequence {
    phase = phase.generating

    pass "Hello" {
      run      = "print"
      requires = ["com.example.console"]
      args     = { greeting = "hello" }
    }

    pass "Done" {}
  }
}
`

func writeManifest(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(src), 0o600))
	return dir
}

func newTestApp(t *testing.T, cfg Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	config, err := NewConfig(cfg)
	require.NoError(t, err)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	return NewApp(out, logs, config), out, logs
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectedErr string
		format      string
	}{
		{name: "defaults to text", cfg: Config{PluginPaths: []string{"x"}}, format: FormatText},
		{name: "yaml", cfg: Config{PluginPaths: []string{"x"}, Format: FormatYAML}, format: FormatYAML},
		{name: "no paths", cfg: Config{}, expectedErr: "at least one plugin manifest path is required"},
		{name: "bad format", cfg: Config{PluginPaths: []string{"x"}, Format: "xml"}, expectedErr: `unknown output format "xml"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectedErr != "" {
				assert.ErrorContains(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.format, cfg.Format)
		})
	}
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	app, _, _ := newTestApp(t, Config{PluginPaths: []string{"x"}})
	assert.Equal(t, []string{"env_vars", "log", "noop", "print", "set_values"}, app.Handlers().Names())
}

func TestRun_PrintsPlan(t *testing.T) {
	app, out, _ := newTestApp(t, Config{PluginPaths: []string{writeManifest(t, testManifest)}})

	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, `Resolving (0 passes)
Generating (2 passes)
      + com.example.console
   1. com.example.greeter/Hello
      - com.example.console
   2. com.example.greeter/Done
Transforming (0 passes)
Optimizing (0 passes)
`, out.String())
}

func TestRun_Executes(t *testing.T) {
	app, out, logs := newTestApp(t, Config{
		PluginPaths: []string{writeManifest(t, testManifest)},
		Format:      FormatYAML,
		Execute:     true,
		LogLevel:    "debug",
		LogFormat:   "json",
	})

	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "key: com.example.greeter/Hello")
	assert.Contains(t, out.String(), `      greeting = "hello"`)
	assert.Contains(t, logs.String(), `"msg":"Build finished."`)
	assert.Contains(t, logs.String(), `"msg":"Extension activated."`)
}

func TestRun_DumpGraph(t *testing.T) {
	app, out, _ := newTestApp(t, Config{PluginPaths: []string{writeManifest(t, testManifest)}, DumpGraph: true})

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "digraph passgrid {")
	assert.Contains(t, out.String(), `"com.example.greeter/Hello" -> "com.example.greeter/Done";`)
}

func TestRun_ResolveError(t *testing.T) {
	src := `
plugin "a" {
  sequence {
    phase = "Generating"
    pass "A" { before = ["a/B"] }
  }
  sequence {
    phase = "Optimizing"
    pass "B" {}
  }
}
`
	app, _, _ := newTestApp(t, Config{PluginPaths: []string{writeManifest(t, src)}})

	err := app.Run(context.Background())
	require.ErrorIs(t, err, resolver.ErrCrossPhaseConstraint)
	assert.ErrorContains(t, err, "failed to resolve passes")
}

func TestRun_LoadError(t *testing.T) {
	app, _, _ := newTestApp(t, Config{PluginPaths: []string{writeManifest(t, `plugin "a" {`)}})
	assert.ErrorContains(t, app.Run(context.Background()), "failed to parse manifest")
}
