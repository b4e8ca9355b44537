// Package toposort provides a string-keyed directed graph with deterministic
// topological sorting and cycle reporting.
package toposort

import (
	"slices"
	"sort"
)

// Graph represents a directed graph over string-named nodes.
// The zero value is not usable; create instances with NewGraph.
type Graph struct {
	nodes map[string]struct{}
	edges map[string]map[string]struct{}
}

// NewGraph initializes an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string]map[string]struct{}),
	}
}

// AddNode inserts a node. Returns false if the node already exists.
func (g *Graph) AddNode(name string) bool {
	if _, exists := g.nodes[name]; exists {
		return false
	}

	g.nodes[name] = struct{}{}

	return true
}

// AddEdge inserts the directed link from "from" to "to", creating both nodes
// if absent. Returns false if the edge already exists.
func (g *Graph) AddEdge(from, to string) bool {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	set, ok := g.edges[from]
	if !ok {
		set = make(map[string]struct{})
		g.edges[from] = set
	}

	if _, dup := set[to]; dup {
		return false
	}

	set[to] = struct{}{}

	return true
}

// HasEdge reports whether the directed edge from "from" to "to" exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[from][to]

	return ok
}

// Nodes returns all node names in lexicographic order.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Children returns the targets of outgoing edges of the given node, sorted.
func (g *Graph) Children(from string) []string {
	children := make([]string, 0, len(g.edges[from]))
	for to := range g.edges[from] {
		children = append(children, to)
	}

	sort.Strings(children)

	return children
}

// Toposort returns the nodes in topological order: every edge source precedes
// its target. Ties are broken lexicographically, so the output is
// deterministic. The second return value is false when the graph contains a
// cycle; the partial order produced so far is returned in that case.
func (g *Graph) Toposort() ([]string, bool) {
	inDegree := make(map[string]int, len(g.nodes))
	for name := range g.nodes {
		inDegree[name] = 0
	}

	for _, targets := range g.edges {
		for to := range targets {
			inDegree[to]++
		}
	}

	ready := make([]string, 0, len(g.nodes))

	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}

	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))

	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		released := make([]string, 0)

		for to := range g.edges[name] {
			inDegree[to]--
			if inDegree[to] == 0 {
				released = append(released, to)
			}
		}

		if len(released) > 0 {
			ready = append(ready, released...)
			sort.Strings(ready)
		}
	}

	return order, len(order) == len(g.nodes)
}

// FindCycle returns one cycle reachable from seed as a node path, or nil when
// no such cycle exists. The path does not repeat the starting node at the end.
func (g *Graph) FindCycle(seed string) []string {
	if _, exists := g.nodes[seed]; !exists {
		return nil
	}

	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)

	state := make(map[string]int, len(g.nodes))
	stack := make([]string, 0, len(g.nodes))

	var cycle []string

	var visit func(name string) bool

	visit = func(name string) bool {
		state[name] = onStack
		stack = append(stack, name)

		for _, to := range g.Children(name) {
			switch state[to] {
			case onStack:
				start := slices.Index(stack, to)
				cycle = slices.Clone(stack[start:])

				return true
			case unvisited:
				if visit(to) {
					return true
				}
			}
		}

		state[name] = done
		stack = stack[:len(stack)-1]

		return false
	}

	visit(seed)

	return cycle
}
