package extension

import (
	"fmt"
	"strings"

	"github.com/vk/passgrid/internal/graph"
)

// Descriptor describes one extension context type.
type Descriptor struct {
	ID          ID
	Description string
	// DependsOn lists extensions that must be active whenever this one is.
	DependsOn []ID
	// New creates a fresh context instance for one build. It may be nil for
	// extensions that only exist to order passes.
	New func() Context
}

// Catalog holds the known extension descriptors. A nil *Catalog behaves like
// an empty one.
type Catalog struct {
	descriptors map[ID]*Descriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{descriptors: make(map[ID]*Descriptor)}
}

// Register adds a descriptor. Registering the same id twice is an error.
func (c *Catalog) Register(d Descriptor) error {
	if d.ID == "" {
		return fmt.Errorf("extension id cannot be empty")
	}
	if _, exists := c.descriptors[d.ID]; exists {
		return fmt.Errorf("extension %q already registered", d.ID)
	}
	for _, dep := range d.DependsOn {
		if dep == d.ID {
			return fmt.Errorf("extension %q cannot depend on itself", d.ID)
		}
	}
	stored := d
	stored.DependsOn = append([]ID(nil), d.DependsOn...)
	c.descriptors[d.ID] = &stored
	return nil
}

// Lookup returns the descriptor registered for id.
func (c *Catalog) Lookup(id ID) (Descriptor, bool) {
	if c == nil {
		return Descriptor{}, false
	}
	d, ok := c.descriptors[id]
	if !ok {
		return Descriptor{}, false
	}
	return *d, true
}

// IDs returns every registered id in ascending order.
func (c *Catalog) IDs() []ID {
	if c == nil {
		return nil
	}
	s := make(Set, len(c.descriptors))
	for id := range c.descriptors {
		s.Add(id)
	}
	return s.Sorted()
}

// Closure returns ids together with everything they transitively depend on.
// Ids without a descriptor are kept as they are.
func (c *Catalog) Closure(ids ...ID) Set {
	closure := make(Set, len(ids))
	queue := append([]ID(nil), ids...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if closure.Has(current) {
			continue
		}
		closure.Add(current)
		if d, ok := c.Lookup(current); ok {
			queue = append(queue, d.DependsOn...)
		}
	}
	return closure
}

// DependsOn reports whether a transitively depends on b.
func (c *Catalog) DependsOn(a, b ID) bool {
	if a == b {
		return false
	}
	d, ok := c.Lookup(a)
	if !ok {
		return false
	}
	return c.Closure(d.DependsOn...).Has(b)
}

// Ranking computes a stable activation order over every registered id plus
// extra. Dependencies rank before their dependents and ties are broken by
// ascending id.
func (c *Catalog) Ranking(extra ...ID) (Ranking, error) {
	g := graph.New(func(a, b ID) bool { return a < b })
	for _, id := range c.IDs() {
		g.AddNode(id)
	}
	for _, id := range extra {
		g.AddNode(id)
	}
	for _, id := range c.IDs() {
		d, _ := c.Lookup(id)
		for _, dep := range d.DependsOn {
			g.AddNode(dep)
			if err := g.AddEdge(dep, id); err != nil {
				return nil, fmt.Errorf("linking extension %q to dependency %q: %w", id, dep, err)
			}
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		if cycleErr := graph.AsCycleError[ID](err); cycleErr != nil {
			return nil, &DependencyCycleError{Cycle: cycleErr.Cycle}
		}
		return nil, err
	}

	ranking := make(Ranking, len(order))
	for i, id := range order {
		ranking[id] = i
	}
	return ranking, nil
}

// Ranking maps an extension id to its activation position.
type Ranking map[ID]int

// Less orders a before b if a activates earlier. Ids missing from the ranking
// sort after ranked ones, by id.
func (r Ranking) Less(a, b ID) bool {
	ra, okA := r[a]
	rb, okB := r[b]
	switch {
	case okA && okB:
		if ra != rb {
			return ra < rb
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// Ascending returns the members of s in activation order.
func (r Ranking) Ascending(s Set) []ID {
	ids := s.Sorted()
	sortBy(ids, r.Less)
	return ids
}

// Descending returns the members of s in deactivation order: dependents
// before the extensions they depend on.
func (r Ranking) Descending(s Set) []ID {
	ids := s.Sorted()
	sortBy(ids, func(a, b ID) bool { return r.Less(b, a) })
	return ids
}

// DependencyCycleError reports extensions whose DependsOn lists form a cycle.
type DependencyCycleError struct {
	Cycle []ID
}

func (e *DependencyCycleError) Error() string {
	parts := make([]string, 0, len(e.Cycle)+1)
	for _, id := range e.Cycle {
		parts = append(parts, string(id))
	}
	if len(e.Cycle) > 0 {
		parts = append(parts, string(e.Cycle[0]))
	}
	return "extension dependencies form a cycle: " + strings.Join(parts, " -> ")
}
