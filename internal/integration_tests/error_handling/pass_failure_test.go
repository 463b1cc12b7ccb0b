package integration_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgrid/internal/app"
	"github.com/vk/passgrid/internal/testutil"
)

const pipelineManifest = `
plugin "com.example.pipeline" {
	extension "com.example.session" {}

	sequence {
		phase    = phase.generating
		requires = ["com.example.session"]

		pass "First" {
			run  = "record"
			args = { name = "First" }
		}
		pass "Second" {
			run  = "record"
			args = { name = "Second" }
		}
		pass "Third" {
			run  = "record"
			args = { name = "Third" }
		}
	}
}
`

// Test for: a failing pass stops the build and the cause is kept in the
// error chain.
func TestErrorHandling_PassFailureStopsTheBuild(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	boom := errors.New("boom")
	recorder := &testutil.Recorder{Fail: map[string]error{"Second": boom}}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"pipeline.hcl": pipelineManifest}, app.Config{Execute: true}, recorder)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, boom)
	assert.Contains(t, result.Err.Error(), "execution failed")
	assert.Contains(t, result.Err.Error(), "com.example.pipeline/Second")
	assert.Equal(t, []string{"First", "Second"}, recorder.Events())
	// The plan is printed before execution starts.
	assert.Contains(t, result.Output, "com.example.pipeline/Third")
}

// Test for: a cancelled context stops the build before the first pass.
func TestErrorHandling_CancelledBuild(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	recorder := &testutil.Recorder{}

	result := testutil.RunIntegrationTestWithContext(ctx, t, map[string]string{"pipeline.hcl": pipelineManifest}, app.Config{Execute: true}, recorder)

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Empty(t, recorder.Events())
}
