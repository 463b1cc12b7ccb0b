package graph

import (
	"errors"
	"fmt"
	"strings"
)

// CycleError is returned by TopologicalSort when the graph cannot be fully
// ordered.
type CycleError[K comparable] struct {
	// Remaining holds every node that could not be ordered, in ascending order.
	Remaining []K
	// Cycle holds one cycle among the remaining nodes. The last element has an
	// edge back to the first.
	Cycle []K
}

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprint(id)
	}
	if len(parts) > 0 {
		parts = append(parts, parts[0])
	}
	return fmt.Sprintf("graph contains a cycle: %s (%d nodes unordered)", strings.Join(parts, " -> "), len(e.Remaining))
}

// AsCycleError returns err as a *CycleError, or nil if it is not one.
func AsCycleError[K comparable](err error) *CycleError[K] {
	var cycleErr *CycleError[K]
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}
