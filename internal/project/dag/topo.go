package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []NodeID   // линейный порядок; узлы из циклов в конце
	Batches [][]NodeID // волны независимых узлов
	Cyclic  bool
	Cycles  [][]NodeID // сильно связные компоненты больше одного узла
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}

// ToposortKahn orders g by waves. Nodes Kahn cannot reach (members of
// cycles and everything depending on them) follow in index order, and the
// cycles themselves are listed in Cycles.
func ToposortKahn(g *Graph) *Topo {
	n := g.Len()
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]NodeID, 0, n)}

	current := make([]NodeID, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			current = append(current, nodeID(i))
		}
	}
	placed := make([]bool, n)
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)
		var next []NodeID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			placed[id] = true
			for _, to := range g.Edges[id] {
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != n {
		topo.Cyclic = true
		for i := 0; i < n; i++ {
			if !placed[i] {
				topo.Order = append(topo.Order, nodeID(i))
			}
		}
		topo.Cycles = Components(g)
	}
	return topo
}

// Components returns the strongly connected components of g with more
// than one node, each sorted, ordered by their smallest node.
func Components(g *Graph) [][]NodeID {
	n := g.Len()
	t := tarjan{g: g, index: make([]int, n), low: make([]int, n), onStack: make([]bool, n)}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := 0; i < n; i++ {
		if t.index[i] < 0 {
			t.visit(nodeID(i))
		}
	}
	slices.SortFunc(t.out, func(a, b []NodeID) int { return int(a[0]) - int(b[0]) })
	return t.out
}

type tarjan struct {
	g       *Graph
	next    int
	index   []int
	low     []int
	onStack []bool
	stack   []NodeID
	out     [][]NodeID
}

// visit is the recursive step of Tarjan's algorithm; require chains are
// shallow enough for recursion.
func (t *tarjan) visit(v NodeID) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.Edges[v] {
		switch {
		case t.index[w] < 0:
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		case t.onStack[w]:
			t.low[v] = min(t.low[v], t.index[w])
		}
	}
	if t.low[v] != t.index[v] {
		return
	}
	var comp []NodeID
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	if len(comp) > 1 {
		slices.Sort(comp)
		t.out = append(t.out, comp)
	}
}
