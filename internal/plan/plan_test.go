package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plugin"
)

func TestConcretePass_CopiesLists(t *testing.T) {
	deactivate := []extension.ID{"a"}
	p := NewPass(PassSpec{
		Key:        passkey.MustNew("p", "A"),
		Plugin:     plugin.Internal,
		Deactivate: deactivate,
		Activate:   []extension.ID{"b"},
	})

	deactivate[0] = "changed"
	assert.Equal(t, []extension.ID{"a"}, p.Deactivate())

	got := p.Activate()
	got[0] = "changed"
	assert.Equal(t, []extension.ID{"b"}, p.Activate())
	assert.Equal(t, plugin.InternalName, p.PluginName())
}

func TestConcretePass_Execute(t *testing.T) {
	t.Run("nil body is a no-op", func(t *testing.T) {
		p := NewPass(PassSpec{Key: passkey.MustNew("p", "A")})
		assert.NoError(t, p.Execute(context.Background(), nil))
	})

	t.Run("body error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		p := NewPass(PassSpec{
			Key:  passkey.MustNew("p", "A"),
			Body: plugin.PassFunc(func(context.Context, plugin.Env) error { return boom }),
		})
		assert.ErrorIs(t, p.Execute(context.Background(), nil), boom)
	})
}

func TestExecutionPlan(t *testing.T) {
	a := NewPass(PassSpec{Key: passkey.MustNew("p", "A")})
	b := NewPass(PassSpec{Key: passkey.MustNew("p", "B")})

	phases := []Phase{
		NewPhase(phase.Resolving),
		NewPhase(phase.Generating, a, b),
	}
	ep := New(phases...)
	phases[0] = NewPhase(phase.Optimizing)

	require.Len(t, ep.Phases(), 2)
	assert.Equal(t, phase.Resolving, ep.Phases()[0].Phase())
	assert.Equal(t, 2, ep.PassCount())

	gen, ok := ep.Phase(phase.Generating)
	require.True(t, ok)
	assert.Equal(t, []*ConcretePass{a, b}, gen.Passes())

	_, ok = ep.Phase(phase.Transforming)
	assert.False(t, ok)
}
