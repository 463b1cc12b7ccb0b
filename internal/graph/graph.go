package graph

import (
	"fmt"
	"sort"
)

// Graph is a directed graph over comparable node ids with a fixed ordering
// used for deterministic output.
type Graph[K comparable] struct {
	less  func(a, b K) bool
	nodes map[K]*node[K]
	edges int
}

// node is a single vertex. It is un-exported so callers interact with the graph
// through ids only.
type node[K comparable] struct {
	id K
	// deps holds the predecessors of this node.
	deps map[K]struct{}
	// dependents holds the successors of this node.
	dependents map[K]struct{}
}

// New creates an empty graph. less defines the tie-break order used whenever
// the graph has to choose between otherwise unordered nodes.
func New[K comparable](less func(a, b K) bool) *Graph[K] {
	if less == nil {
		panic("graph: ordering function must not be nil")
	}
	return &Graph[K]{
		less:  less,
		nodes: make(map[K]*node[K]),
	}
}

// AddNode adds a node with the given id. Adding an existing id is a no-op.
func (g *Graph[K]) AddNode(id K) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node[K]{
		id:         id,
		deps:       make(map[K]struct{}),
		dependents: make(map[K]struct{}),
	}
}

// HasNode reports whether id is part of the graph.
func (g *Graph[K]) HasNode(id K) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph[K]) EdgeCount() int {
	return g.edges
}

// AddEdge records that `from` must precede `to`. Both nodes must already exist.
// Adding the same edge twice is a no-op.
func (g *Graph[K]) AddEdge(from, to K) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %v -> %v", from, to)
	}
	fromNode, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("source node not found: %v", from)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("destination node not found: %v", to)
	}
	if _, exists := toNode.deps[from]; exists {
		return nil
	}
	toNode.deps[from] = struct{}{}
	fromNode.dependents[to] = struct{}{}
	g.edges++
	return nil
}

// Nodes returns every node id in ascending order.
func (g *Graph[K]) Nodes() []K {
	ids := make([]K, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	g.sortIDs(ids)
	return ids
}

// Dependencies returns the predecessors of id in ascending order.
func (g *Graph[K]) Dependencies(id K) ([]K, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %v", id)
	}
	return g.sortedSet(n.deps), nil
}

// Dependents returns the successors of id in ascending order.
func (g *Graph[K]) Dependents(id K) ([]K, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %v", id)
	}
	return g.sortedSet(n.dependents), nil
}

// Edge is a single `From -> To` relationship.
type Edge[K comparable] struct {
	From K
	To   K
}

// Edges returns all edges ordered by source, then destination.
func (g *Graph[K]) Edges() []Edge[K] {
	edges := make([]Edge[K], 0, g.edges)
	for _, from := range g.Nodes() {
		for _, to := range g.sortedSet(g.nodes[from].dependents) {
			edges = append(edges, Edge[K]{From: from, To: to})
		}
	}
	return edges
}

// TopologicalSort returns every node in an order that respects all edges.
// Ties between available nodes are broken by the graph's ordering function.
// If the graph contains a cycle, a *CycleError is returned.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	inDegree := make(map[K]int, len(g.nodes))
	available := newQueue(g.less)
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			available.push(id)
		}
	}

	order := make([]K, 0, len(g.nodes))
	for available.Len() > 0 {
		id := available.pop()
		order = append(order, id)
		for dependent := range g.nodes[id].dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				available.push(dependent)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}

	remaining := make(map[K]struct{}, len(g.nodes)-len(order))
	for id, deg := range inDegree {
		if deg > 0 {
			remaining[id] = struct{}{}
		}
	}
	return nil, &CycleError[K]{
		Remaining: g.sortedSet(remaining),
		Cycle:     g.findCycle(remaining),
	}
}

// findCycle walks the subgraph induced by `within` depth-first and returns the
// first cycle it finds, rotated so that its smallest node comes first.
func (g *Graph[K]) findCycle(within map[K]struct{}) []K {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[K]int, len(within))
	var stack []K
	var cycle []K

	var visit func(id K) bool
	visit = func(id K) bool {
		state[id] = onStack
		stack = append(stack, id)
		for _, next := range g.sortedSet(g.nodes[id].dependents) {
			if _, ok := within[next]; !ok {
				continue
			}
			switch state[next] {
			case onStack:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle = append([]K(nil), stack[i:]...)
						break
					}
				}
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, id := range g.sortedSet(within) {
		if state[id] == unvisited && visit(id) {
			break
		}
	}
	return g.rotate(cycle)
}

// rotate shifts a cycle so that it starts at its smallest element.
func (g *Graph[K]) rotate(cycle []K) []K {
	if len(cycle) == 0 {
		return cycle
	}
	start := 0
	for i := range cycle {
		if g.less(cycle[i], cycle[start]) {
			start = i
		}
	}
	return append(cycle[start:], cycle[:start]...)
}

func (g *Graph[K]) sortedSet(set map[K]struct{}) []K {
	ids := make([]K, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	g.sortIDs(ids)
	return ids
}

func (g *Graph[K]) sortIDs(ids []K) {
	sort.Slice(ids, func(i, j int) bool { return g.less(ids[i], ids[j]) })
}
