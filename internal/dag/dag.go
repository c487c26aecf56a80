// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for cycle detection
// and topological ordering. The inventory model uses it to keep the group
// hierarchy free of cycles: an edge from parent to child means the parent
// group contains the child group.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes that form the cycle (not necessarily all of them,
		// but enough to identify the problem).
		Cycle []string
	}

	// Graph is a directed graph. Nodes are identified by string keys.
	// An edge from A to B means A is a parent of B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("group cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// HasEdge reports whether a direct edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	for _, n := range g.adjacency[from] {
		if n == to {
			return true
		}
	}
	return false
}

// Children returns a copy of the direct neighbors of the node, in the order
// the edges were added.
func (g *Graph) Children(name string) []string {
	neighbors := g.adjacency[name]
	if len(neighbors) == 0 {
		return nil
	}
	out := make([]string, len(neighbors))
	copy(out, neighbors)
	return out
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added
// if they don't exist. Duplicate edges are collapsed.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if g.HasEdge(from, to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// AddEdgeChecked adds a directed edge from -> to, refusing edges that would
// introduce a cycle. On refusal the graph is left exactly as it was and a
// CycleError identifying the offending nodes is returned.
func (g *Graph) AddEdgeChecked(from, to string) error {
	hadFrom, hadTo := g.nodeSet[from], g.nodeSet[to]
	if g.HasEdge(from, to) {
		return nil
	}
	g.AddEdge(from, to)
	if _, err := g.TopologicalSort(); err != nil {
		neighbors := g.adjacency[from]
		g.adjacency[from] = neighbors[:len(neighbors)-1]
		if !hadFrom {
			g.removeNode(from)
		}
		if !hadTo {
			g.removeNode(to)
		}
		return err
	}
	return nil
}

func (g *Graph) removeNode(name string) {
	delete(g.nodeSet, name)
	for i, n := range g.nodes {
		if n == name {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
}

// TopologicalSort returns a parents-before-children ordering using Kahn's
// algorithm. Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// Compute in-degrees.
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	// Seed the queue with nodes that have no incoming edges, in insertion order.
	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Remaining nodes with non-zero in-degree form the cycle.
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
