package resolver

import (
	"fmt"

	"github.com/vk/passgrid/internal/graph"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plugin"
)

// order linearizes one phase. Unconstrained passes are emitted by ascending
// key. The returned graph is kept for diagnostics.
func order(p phase.BuildPhase, passes []*plugin.PassDecl, edges []graph.Edge[passkey.Key]) ([]passkey.Key, *graph.Graph[passkey.Key], error) {
	g := graph.New(passkey.Less)
	for _, decl := range passes {
		g.AddNode(decl.Key)
	}
	for _, e := range edges {
		if e.From == e.To {
			return nil, nil, &CyclicConstraintGraphError{
				Phase:     p,
				Remaining: []passkey.Key{e.From},
				Cycle:     []passkey.Key{e.From},
			}
		}
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, nil, fmt.Errorf("phase %s: %w", p, err)
		}
	}

	keys, err := g.TopologicalSort()
	if err != nil {
		if cycleErr := graph.AsCycleError[passkey.Key](err); cycleErr != nil {
			return nil, nil, &CyclicConstraintGraphError{
				Phase:     p,
				Remaining: cycleErr.Remaining,
				Cycle:     cycleErr.Cycle,
			}
		}
		return nil, nil, fmt.Errorf("phase %s: %w", p, err)
	}
	return keys, g, nil
}
