package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgrid/internal/app"
	"github.com/vk/passgrid/internal/testutil"
	"gopkg.in/yaml.v3"
)

const assetsManifest = `
plugin "com.example.assets" {
	display_name = "Assets"

	phantom "Ready" {
		phase = phase.generating
	}

	sequence {
		phase = phase.generating

		pass "Scan" {
			description = "Scan source assets"
			before      = ["com.example.assets/Ready"]
		}
		pass "Pack" {
			description = "Pack assets"
			run         = "print"
			args        = { target = "bundle", level = 9 }
		}
	}
}
`

func TestOutputFormats_YAML(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{"assets.hcl": assetsManifest}, app.Config{Format: app.FormatYAML})
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)

	var doc struct {
		Phases []struct {
			Phase  string `yaml:"phase"`
			Passes []struct {
				Key         string `yaml:"key"`
				Plugin      string `yaml:"plugin"`
				Description string `yaml:"description"`
			} `yaml:"passes"`
		} `yaml:"phases"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(result.Output), &doc))

	var keys []string
	for _, p := range doc.Phases {
		if p.Phase != "Generating" {
			continue
		}
		for _, pass := range p.Passes {
			keys = append(keys, pass.Key)
			assert.Equal(t, "com.example.assets", pass.Plugin)
		}
	}
	assert.Equal(t, []string{"com.example.assets/Scan", "com.example.assets/Pack"}, keys)
}

func TestOutputFormats_DOT(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{"assets.hcl": assetsManifest}, app.Config{DumpGraph: true})
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)

	assert.Contains(t, result.Output, "digraph passgrid {")
	assert.Contains(t, result.Output, `"cluster_Generating"`)
	assert.Contains(t, result.Output, `"com.example.assets/Ready" [style=dashed];`)
	assert.Contains(t, result.Output, `"com.example.assets/Scan" -> "com.example.assets/Ready";`)
}

// Test for: the core modules are available when no modules are given, and
// their output follows the printed plan.
func TestOutputFormats_TextWithCoreModules(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{"assets.hcl": assetsManifest}, app.Config{Execute: true})
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)

	assert.Contains(t, result.Output, "   1. com.example.assets/Scan  \"Scan source assets\"\n")
	assert.Contains(t, result.Output, "   2. com.example.assets/Pack  \"Pack assets\"\n")
	assert.Contains(t, result.Output, "      level = \"9\"\n      target = \"bundle\"\n")
}
