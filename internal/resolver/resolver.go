// Package resolver turns plugin pass declarations into an execution plan.
//
// Resolution runs in four steps, all inside New:
//
//  1. Every declaration is indexed by key and grouped by phase. Constraints
//     whose endpoints are not declared are dropped; constraints across
//     phases are rejected.
//  2. Each phase is sorted topologically. Passes that are not ordered against
//     each other run in ascending key order.
//  3. Each ordered phase is walked once to decide which extensions to close
//     and open before every pass. Extensions still open at the end of a phase
//     are closed by a synthesized cleanup pass.
//  4. The result is packaged as a plan with one entry per built-in phase.
//
// Resolution either succeeds completely or returns an error and no plan.
package resolver

import (
	"fmt"
	"log/slog"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/graph"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plan"
	"github.com/vk/passgrid/internal/plugin"
)

// Resolver holds the plan computed from one set of plugins. It never changes
// after New returns; build a new Resolver when the plugins change.
type Resolver struct {
	logger     *slog.Logger
	catalog    *extension.Catalog
	compatible Compatibility

	plan   *plan.ExecutionPlan
	graphs []PhaseGraph
}

// Node is one pass in a PhaseGraph.
type Node struct {
	Key     passkey.Key
	Plugin  string
	Phantom bool
}

// PhaseGraph is the ordering graph of one phase after resolution.
type PhaseGraph struct {
	Phase phase.BuildPhase
	// Nodes lists every pass of the phase, phantoms included, in resolved
	// order.
	Nodes []Node
	// Edges lists the surviving constraints as `From` must precede `To`.
	Edges []graph.Edge[passkey.Key]
}

// New collects declarations from plugins and resolves them.
func New(plugins []plugin.Plugin, opts ...Option) (*Resolver, error) {
	reg := plugin.NewRegistry()
	if err := reg.Collect(plugins...); err != nil {
		return nil, fmt.Errorf("failed to collect plugin declarations: %w", err)
	}
	return FromRegistry(reg, opts...)
}

// FromRegistry resolves declarations that were already collected.
func FromRegistry(reg *plugin.Registry, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		logger:     slog.Default(),
		compatible: func(pass *plugin.PassDecl, id extension.ID) bool { return pass.IsExtensionCompatible(id) },
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.resolve(reg); err != nil {
		return nil, err
	}
	return r, nil
}

// Plan returns the resolved execution plan.
func (r *Resolver) Plan() *plan.ExecutionPlan {
	return r.plan
}

// Graphs returns the ordering graph of every built-in phase, in phase order.
func (r *Resolver) Graphs() []PhaseGraph {
	out := make([]PhaseGraph, len(r.graphs))
	for i, g := range r.graphs {
		out[i] = PhaseGraph{
			Phase: g.Phase,
			Nodes: append([]Node(nil), g.Nodes...),
			Edges: append([]graph.Edge[passkey.Key](nil), g.Edges...),
		}
	}
	return out
}

func (r *Resolver) resolve(reg *plugin.Registry) error {
	g, err := r.group(reg)
	if err != nil {
		return err
	}

	ranking, err := r.catalog.Ranking(mentionedExtensions(reg.Passes)...)
	if err != nil {
		return fmt.Errorf("failed to rank extensions: %w", err)
	}
	compiler := &lifecycle{catalog: r.catalog, ranking: ranking, compatible: r.compatible}

	phases := make([]plan.Phase, 0, len(phase.BuiltIn()))
	for _, p := range phase.BuiltIn() {
		keys, pg, err := order(p, g.passes[p], g.edges[p])
		if err != nil {
			return err
		}

		ordered := make([]*plugin.PassDecl, len(keys))
		nodes := make([]Node, len(keys))
		for i, k := range keys {
			decl := g.byKey[k]
			ordered[i] = decl
			nodes[i] = Node{Key: k, Plugin: decl.PluginName(), Phantom: decl.Phantom}
		}
		r.graphs = append(r.graphs, PhaseGraph{Phase: p, Nodes: nodes, Edges: pg.Edges()})

		concrete := compiler.compile(p, ordered)
		r.logger.Debug("Phase resolved.", "phase", p.String(), "passes", len(keys), "concrete", len(concrete))
		phases = append(phases, plan.NewPhase(p, concrete...))
	}

	r.plan = plan.New(phases...)
	r.logger.Debug("Execution plan resolved.", "passes", r.plan.PassCount())
	return nil
}

// mentionedExtensions returns every extension id any pass refers to, so ids
// missing from the catalog still get a stable rank.
func mentionedExtensions(passes []*plugin.PassDecl) []extension.ID {
	seen := extension.NewSet()
	for _, decl := range passes {
		if decl == nil {
			continue
		}
		for id := range decl.Required {
			seen.Add(id)
		}
		for id := range decl.Compatible {
			seen.Add(id)
		}
	}
	return seen.Sorted()
}
