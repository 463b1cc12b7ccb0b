package resolver

import (
	"github.com/vk/passgrid/internal/extension"
	"github.com/vk/passgrid/internal/passkey"
	"github.com/vk/passgrid/internal/phase"
	"github.com/vk/passgrid/internal/plan"
	"github.com/vk/passgrid/internal/plugin"
)

// CleanupDescription is the description of synthesized cleanup passes.
const CleanupDescription = "Close extensions"

// CleanupKey returns the key of the cleanup pass appended to phase p.
func CleanupKey(p phase.BuildPhase) passkey.Key {
	return passkey.Key{Plugin: plugin.InternalName, Pass: "CleanupExtensions/" + p.String()}
}

// lifecycle walks a phase in order and brackets extension lifetimes around
// the passes that need them. It does not reorder passes to save transitions.
type lifecycle struct {
	catalog    *extension.Catalog
	ranking    extension.Ranking
	compatible Compatibility
}

func (l *lifecycle) compile(p phase.BuildPhase, passes []*plugin.PassDecl) []*plan.ConcretePass {
	active := extension.NewSet()
	out := make([]*plan.ConcretePass, 0, len(passes)+1)

	for _, decl := range passes {
		if decl.Phantom {
			continue
		}
		required := l.catalog.Closure(decl.Required.Sorted()...)

		incompatible := extension.NewSet()
		for _, id := range active.Sorted() {
			if !required.Has(id) && !l.compatible(decl, id) {
				incompatible.Add(id)
			}
		}
		// An extension never outlives one it depends on.
		closing := extension.NewSet()
		for id := range active {
			if incompatible.Has(id) || l.dependsOnAny(id, incompatible) {
				closing.Add(id)
			}
		}
		for id := range closing {
			delete(active, id)
		}

		opening := extension.NewSet()
		for id := range required {
			if !active.Has(id) {
				opening.Add(id)
				active.Add(id)
			}
		}

		out = append(out, plan.NewPass(plan.PassSpec{
			Key:         decl.Key,
			Plugin:      decl.Plugin,
			Description: decl.Description,
			Body:        decl.Body,
			Deactivate:  l.ranking.Descending(closing),
			Activate:    l.ranking.Ascending(opening),
		}))
	}

	if len(active) > 0 {
		out = append(out, plan.NewPass(plan.PassSpec{
			Key:         CleanupKey(p),
			Plugin:      plugin.Internal,
			Description: CleanupDescription,
			Body:        plugin.Noop,
			Deactivate:  l.ranking.Descending(active),
		}))
	}
	return out
}

func (l *lifecycle) dependsOnAny(id extension.ID, set extension.Set) bool {
	for other := range set {
		if l.catalog.DependsOn(id, other) {
			return true
		}
	}
	return false
}
