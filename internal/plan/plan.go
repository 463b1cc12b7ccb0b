// Package plan holds the immutable output of pass resolution: one entry per
// build phase, each carrying the concrete passes to run in order together with
// the extension transitions that bracket them.
//
// A plan has no reference back to the resolver that produced it. Every
// accessor returns a copy, so a plan can be shared between goroutines once it
// has been built.
package plan

import (
	"context"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plugin"
)

// PassSpec carries the values a ConcretePass is built from.
type PassSpec struct {
	Key         passkey.Key
	Plugin      plugin.Plugin
	Description string
	Body        plugin.Pass
	// Deactivate lists extensions to close before the pass runs, in order.
	Deactivate []extension.ID
	// Activate lists extensions to open after the deactivations and before
	// the pass runs, in order.
	Activate []extension.ID
}

// ConcretePass is one executable step of a plan.
type ConcretePass struct {
	key         passkey.Key
	plugin      plugin.Plugin
	description string
	body        plugin.Pass
	deactivate  []extension.ID
	activate    []extension.ID
}

// NewPass builds a ConcretePass from spec. The extension lists are copied.
func NewPass(spec PassSpec) *ConcretePass {
	return &ConcretePass{
		key:         spec.Key,
		plugin:      spec.Plugin,
		description: spec.Description,
		body:        spec.Body,
		deactivate:  cloneIDs(spec.Deactivate),
		activate:    cloneIDs(spec.Activate),
	}
}

func (p *ConcretePass) Key() passkey.Key      { return p.key }
func (p *ConcretePass) Plugin() plugin.Plugin { return p.plugin }
func (p *ConcretePass) Description() string   { return p.description }

// PluginName returns the owning plugin's qualified name.
func (p *ConcretePass) PluginName() string {
	if p.plugin == nil {
		return ""
	}
	return p.plugin.QualifiedName()
}

// Deactivate returns the extensions to close before the pass, in order.
func (p *ConcretePass) Deactivate() []extension.ID { return cloneIDs(p.deactivate) }

// Activate returns the extensions to open before the pass, in order.
func (p *ConcretePass) Activate() []extension.ID { return cloneIDs(p.activate) }

// Execute runs the pass body. A pass without a body does nothing.
func (p *ConcretePass) Execute(ctx context.Context, env plugin.Env) error {
	if p.body == nil {
		return nil
	}
	return p.body.Execute(ctx, env)
}

// Phase is the ordered list of concrete passes of one build phase.
type Phase struct {
	phase  phase.BuildPhase
	passes []*ConcretePass
}

// NewPhase builds a phase entry. The pass slice is copied.
func NewPhase(p phase.BuildPhase, passes ...*ConcretePass) Phase {
	return Phase{phase: p, passes: append([]*ConcretePass(nil), passes...)}
}

func (p Phase) Phase() phase.BuildPhase { return p.phase }
func (p Phase) Len() int                { return len(p.passes) }

// Passes returns the phase's passes in execution order.
func (p Phase) Passes() []*ConcretePass {
	return append([]*ConcretePass(nil), p.passes...)
}

// ExecutionPlan is the resolved, ordered list of phases.
type ExecutionPlan struct {
	phases []Phase
}

// New builds a plan from phases, kept in the given order.
func New(phases ...Phase) *ExecutionPlan {
	return &ExecutionPlan{phases: append([]Phase(nil), phases...)}
}

// Phases returns every phase entry in execution order.
func (e *ExecutionPlan) Phases() []Phase {
	return append([]Phase(nil), e.phases...)
}

// Phase returns the entry for p.
func (e *ExecutionPlan) Phase(p phase.BuildPhase) (Phase, bool) {
	for _, entry := range e.phases {
		if entry.phase == p {
			return entry, true
		}
	}
	return Phase{}, false
}

// PassCount returns the number of concrete passes across all phases.
func (e *ExecutionPlan) PassCount() int {
	n := 0
	for _, entry := range e.phases {
		n += len(entry.passes)
	}
	return n
}

func cloneIDs(ids []extension.ID) []extension.ID {
	if len(ids) == 0 {
		return nil
	}
	return append([]extension.ID(nil), ids...)
}
