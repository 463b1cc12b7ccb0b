// Package graph provides a small directed graph used to linearize items that
// carry "must precede" relationships.
//
// # Ordering
//
// An edge `from -> to` means `from` must appear before `to` in any order the
// graph produces. TopologicalSort runs Kahn's algorithm: it repeatedly emits an
// available node (one whose predecessors were all emitted) and releases its
// successors. When several nodes are available at once, the one that is
// smallest according to the graph's ordering function is emitted first, so the
// same graph always yields the same order regardless of insertion order.
//
// # Cycles
//
// If the sort stalls with nodes left over, the leftovers contain at least one
// cycle. The returned *CycleError lists every leftover node and one concrete
// cycle found with a depth-first walk over the leftovers.
//
// # Thread-Safety
//
// A Graph is not safe for concurrent mutation. It is built and sorted by a
// single goroutine and then discarded.
package graph
