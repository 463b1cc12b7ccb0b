package plugin

import (
	"fmt"

	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
)

// PassDecl is a single declared pass.
type PassDecl struct {
	Key         passkey.Key
	Phase       phase.BuildPhase
	Plugin      Plugin
	Description string
	// Required lists the extensions that must be active while the pass runs.
	Required extension.Set
	// Compatible lists extensions that may stay active through the pass
	// without being required by it.
	Compatible extension.Set
	// Phantom passes take part in ordering but never execute.
	Phantom bool
	Body    Pass
}

// IsExtensionCompatible reports whether id may remain active while the pass
// runs. Required extensions are always compatible.
func (p *PassDecl) IsExtensionCompatible(id extension.ID) bool {
	return p.Required.Has(id) || p.Compatible.Has(id)
}

// PluginName returns the owning plugin's qualified name, or an empty string.
func (p *PassDecl) PluginName() string {
	if p.Plugin == nil {
		return ""
	}
	return p.Plugin.QualifiedName()
}

// ConstraintKind is the direction of an ordering constraint.
type ConstraintKind int

const (
	// Before means First runs before Second.
	Before ConstraintKind = iota
	// After means First runs after Second.
	After
)

func (k ConstraintKind) String() string {
	switch k {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// Constraint is an ordering requirement between two passes referenced by key.
type Constraint struct {
	First  passkey.Key
	Second passkey.Key
	Kind   ConstraintKind
	// DeclaredBy is the qualified name of the plugin that declared the
	// constraint. It is informational only.
	DeclaredBy string
}

// Edge returns the constraint as a directed edge: from must precede to.
func (c Constraint) Edge() (from, to passkey.Key) {
	if c.Kind == After {
		return c.Second, c.First
	}
	return c.First, c.Second
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s", c.First, c.Kind, c.Second)
}

// StartKey is the key of the phantom pass that opens plugin's span in p.
func StartKey(plugin string, p phase.BuildPhase) passkey.Key {
	return passkey.Synthetic(plugin, "PluginStart", p.String())
}

// EndKey is the key of the phantom pass that closes plugin's span in p.
func EndKey(plugin string, p phase.BuildPhase) passkey.Key {
	return passkey.Synthetic(plugin, "PluginEnd", p.String())
}
