package manifest

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/handlers"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plugin"
	"github.com/vk/passgrid/internal/resolver"
)

const optimizerManifest = `
plugin "com.example.optimizer" {
  display_name = "Optimizer"

  extension "com.example.meshes" {
    description = "Mesh cache"
    depends_on  = ["com.example.objects"]
  }

  extension "com.example.objects" {}

  sequence {
    phase         = phase.optimizing
    before_plugin = ["com.example.upload"]

    pass "Merge" {
      description = "Merge static meshes"
      run         = "record"
      requires    = ["com.example.meshes"]
      args        = { message = "merging", count = 3, strict = true }
    }

    pass "Compact" {
      after = ["com.example.optimizer/Anchor"]
    }
  }

  phantom "Anchor" {
    phase = "Optimizing"
  }
}

plugin "com.example.upload" {
  sequence {
    phase = "optimizing"
    pass "Upload" {}
  }
}
`

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

// recordingHandlers returns a registry with a "record" handler that stores
// the arguments it was built with.
func recordingHandlers(seen *[]map[string]string) *handlers.Handlers {
	h := handlers.New()
	h.Register("record", func(args map[string]string) (plugin.Pass, error) {
		*seen = append(*seen, args)
		return plugin.Noop, nil
	})
	return h
}

func TestLoadSource(t *testing.T) {
	var seen []map[string]string
	res, err := NewLoader(recordingHandlers(&seen)).LoadSource(testContext(), "optimizer.hcl", []byte(optimizerManifest))
	require.NoError(t, err)

	require.Len(t, res.Plugins, 2)
	assert.Equal(t, "com.example.optimizer", res.Plugins[0].QualifiedName())
	assert.Equal(t, "Optimizer", res.Plugins[0].DisplayName())
	assert.Equal(t, "com.example.upload", res.Plugins[1].DisplayName())
	assert.Equal(t, "optimizer.hcl", res.Plugins[0].Source())
	assert.Equal(t, []string{"optimizer.hcl"}, res.Files)

	assert.Equal(t, []extension.ID{"com.example.meshes", "com.example.objects"}, res.Catalog.IDs())
	meshes, ok := res.Catalog.Lookup("com.example.meshes")
	require.True(t, ok)
	assert.Equal(t, "Mesh cache", meshes.Description)

	require.Len(t, seen, 1)
	assert.Equal(t, map[string]string{"message": "merging", "count": "3", "strict": "true"}, seen[0])
}

func TestLoadSource_Resolves(t *testing.T) {
	var seen []map[string]string
	res, err := NewLoader(recordingHandlers(&seen)).LoadSource(testContext(), "optimizer.hcl", []byte(optimizerManifest))
	require.NoError(t, err)

	r, err := resolver.New(res.PluginList(), resolver.WithCatalog(res.Catalog))
	require.NoError(t, err)

	entry, ok := r.Plan().Phase(phase.Optimizing)
	require.True(t, ok)
	var keys []string
	for _, p := range entry.Passes() {
		keys = append(keys, p.Key().String())
	}
	assert.Equal(t, []string{
		"com.example.optimizer/Merge",
		"com.example.optimizer/Compact",
		"com.example.upload/Upload",
	}, keys)

	merge := entry.Passes()[0]
	assert.Equal(t, "Merge static meshes", merge.Description())
	assert.Equal(t, []extension.ID{"com.example.objects", "com.example.meshes"}, merge.Activate())
	assert.Equal(t, []extension.ID{"com.example.meshes", "com.example.objects"}, entry.Passes()[1].Deactivate())
}

func TestLoadSource_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		expectedErr string
	}{
		{
			name:        "syntax error",
			src:         `plugin "a" {`,
			expectedErr: "failed to parse manifest",
		},
		{
			name:        "unknown top-level block",
			src:         `grid "a" {}`,
			expectedErr: "Unsupported block type",
		},
		{
			name: "unknown handler",
			src: `plugin "a" {
  sequence {
    phase = phase.generating
    pass "P" { run = "missing" }
  }
}`,
			expectedErr: `unknown pass handler "missing"`,
		},
		{
			name: "unknown phase",
			src: `plugin "a" {
  sequence {
    phase = "Linking"
    pass "P" {}
  }
}`,
			expectedErr: "Invalid phase",
		},
		{
			name: "unknown phase variable",
			src: `plugin "a" {
  phantom "X" { phase = phase.linking }
}`,
			expectedErr: "Unsupported attribute",
		},
		{
			name: "nested args",
			src: `plugin "a" {
  sequence {
    phase = "Generating"
    pass "P" { args = { nested = { x = 1 } } }
  }
}`,
			expectedErr: "Invalid args value",
		},
		{
			name: "args not an object",
			src: `plugin "a" {
  sequence {
    phase = "Generating"
    pass "P" { args = "x" }
  }
}`,
			expectedErr: "Invalid args",
		},
		{
			name: "duplicate extension",
			src: `plugin "a" {
  extension "x" {}
  extension "x" {}
}`,
			expectedErr: `extension "x" already registered`,
		},
		{
			name: "duplicate plugin",
			src: `plugin "a" {}
plugin "a" {}`,
			expectedErr: `Duplicate "plugin" block`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader(nil).LoadSource(testContext(), "test.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.expectedErr)
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`plugin "b" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`plugin "a" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte(`# not a manifest`), 0o644))

	res, err := NewLoader(nil).Load(testContext(), dir)
	require.NoError(t, err)

	require.Len(t, res.Plugins, 2)
	assert.Equal(t, "a", res.Plugins[0].QualifiedName())
	assert.Equal(t, "b", res.Plugins[1].QualifiedName())
	assert.Equal(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "b.hcl")}, res.Files)
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`plugin "same" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`plugin "same" {}`), 0o644))

	_, err := NewLoader(nil).Load(testContext(), dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "b.hcl")
	assert.ErrorContains(t, err, "already declared")
}
