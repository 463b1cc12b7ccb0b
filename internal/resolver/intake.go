package resolver

import (
	"fmt"

	"github.com/vk/passgrid/internal/graph"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plugin"
)

// grouped is the registry partitioned by phase. It lives for one resolution.
type grouped struct {
	byKey  map[passkey.Key]*plugin.PassDecl
	passes map[phase.BuildPhase][]*plugin.PassDecl
	edges  map[phase.BuildPhase][]graph.Edge[passkey.Key]
}

// group indexes every declaration by key and sorts constraints into the phase
// of their endpoints. Endpoints are looked up among all declarations,
// phantoms included, so constraints against anchors survive.
func (r *Resolver) group(reg *plugin.Registry) (*grouped, error) {
	g := &grouped{
		byKey:  make(map[passkey.Key]*plugin.PassDecl, len(reg.Passes)),
		passes: make(map[phase.BuildPhase][]*plugin.PassDecl),
		edges:  make(map[phase.BuildPhase][]graph.Edge[passkey.Key]),
	}

	for _, decl := range reg.Passes {
		if decl == nil {
			continue
		}
		if prev, exists := g.byKey[decl.Key]; exists {
			return nil, &DuplicatePassKeyError{
				Key:          decl.Key,
				FirstPlugin:  prev.PluginName(),
				SecondPlugin: decl.PluginName(),
			}
		}
		if !decl.Phase.Valid() {
			return nil, fmt.Errorf("pass %s has invalid phase %v", decl.Key, decl.Phase)
		}
		g.byKey[decl.Key] = decl
		g.passes[decl.Phase] = append(g.passes[decl.Phase], decl)
	}

	dropped := 0
	for _, c := range reg.Constraints {
		first, okFirst := g.byKey[c.First]
		second, okSecond := g.byKey[c.Second]
		if !okFirst || !okSecond {
			dropped++
			r.logger.Debug("Dropping constraint with an absent endpoint.", "constraint", c.String(), "declaredBy", c.DeclaredBy)
			continue
		}
		if first.Phase != second.Phase {
			return nil, &CrossPhaseConstraintError{
				First:       c.First,
				Second:      c.Second,
				FirstPhase:  first.Phase,
				SecondPhase: second.Phase,
			}
		}
		from, to := c.Edge()
		g.edges[first.Phase] = append(g.edges[first.Phase], graph.Edge[passkey.Key]{From: from, To: to})
	}

	r.logger.Debug("Declarations grouped by phase.", "passes", len(g.byKey), "constraints", len(reg.Constraints), "dropped", dropped)
	return g, nil
}
