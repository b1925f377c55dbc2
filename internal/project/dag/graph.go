// Package dag orders units by their require edges and finds require
// cycles.
package dag

import "slices"

// NodeID indexes the units of one check run.
type NodeID uint32

// Graph keeps edges from a required unit to the units requiring it, so a
// topological order lists dependencies first.
type Graph struct {
	Edges [][]NodeID // Edges[from] = []to, sorted and unique
	Indeg []int      // входящие степени для Kahn
}

// New returns a graph with n nodes and no edges.
func New(n int) *Graph {
	return &Graph{Edges: make([][]NodeID, n), Indeg: make([]int, n)}
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.Edges) }

// Add records that to depends on from. Self edges and duplicates are
// dropped; the result tells whether the edge is new.
func (g *Graph) Add(from, to NodeID) bool {
	if from == to {
		return false
	}
	out := g.Edges[from]
	i, found := slices.BinarySearch(out, to)
	if found {
		return false
	}
	g.Edges[from] = slices.Insert(out, i, to)
	g.Indeg[to]++
	return true
}
