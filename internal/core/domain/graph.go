package domain

import (
	"iter"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// TargetGraph is the immutable DAG of target nodes for one build invocation.
// Construction validates the graph: duplicate identities, dangling dependency
// identities, and cycles are fatal precondition violations, never treated as
// absent edges.
type TargetGraph struct {
	nodes map[TargetID]TargetNode

	// order is a topological order with dependencies first.
	order []TargetID

	// levels batches the order so that every node's dependencies live in an
	// earlier batch; nodes within a batch are independent of each other.
	levels [][]TargetID

	fingerprint uint64
}

// NewTargetGraph builds and validates a target graph from its nodes.
func NewTargetGraph(nodes []TargetNode) (*TargetGraph, error) {
	g := &TargetGraph{
		nodes: make(map[TargetID]TargetNode, len(nodes)),
	}
	for i := range nodes {
		n := nodes[i]
		if _, exists := g.nodes[n.ID()]; exists {
			return nil, zerr.With(ErrTargetAlreadyExists, "target", n.ID().String())
		}
		g.nodes[n.ID()] = n
	}

	if err := g.validate(); err != nil {
		return nil, err
	}

	g.buildLevels()
	g.fingerprint = g.computeFingerprint()
	return g, nil
}

// validate checks for dangling dependencies and cycles with a DFS
// topological sort, populating the execution order.
func (g *TargetGraph) validate() error {
	g.order = make([]TargetID, 0, len(g.nodes))
	visited := make(map[TargetID]int, len(g.nodes)) // 0: unvisited, 1: visiting, 2: visited
	var path []TargetID

	var visit func(u TargetID) error
	visit = func(u TargetID) error {
		visited[u] = 1
		path = append(path, u)

		node, exists := g.nodes[u]
		if !exists {
			return zerr.With(ErrDanglingDependency, "dependency", u.String())
		}

		for _, dep := range node.AllDeps() {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	// Sorted roots keep the order deterministic across runs, which keeps
	// the graph fingerprint stable for identical graphs.
	roots := make([]TargetID, 0, len(g.nodes))
	for id := range g.nodes {
		roots = append(roots, id)
	}
	slices.SortFunc(roots, TargetID.Compare)

	for _, id := range roots {
		if visited[id] == 0 {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *TargetGraph) buildCycleError(path []TargetID, dep TargetID) error {
	start := slices.Index(path, dep)
	cyclePath := ""
	for i := start; i >= 0 && i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// buildLevels assigns every node the longest-path depth from its
// dependencies, batching the topological order for parallel processing.
func (g *TargetGraph) buildLevels() {
	depth := make(map[TargetID]int, len(g.nodes))
	maxDepth := 0
	for _, id := range g.order {
		d := 0
		for _, dep := range g.nodes[id].AllDeps() {
			if depDepth := depth[dep] + 1; depDepth > d {
				d = depDepth
			}
		}
		depth[id] = d
		if d > maxDepth {
			maxDepth = d
		}
	}

	g.levels = make([][]TargetID, maxDepth+1)
	for _, id := range g.order {
		g.levels[depth[id]] = append(g.levels[depth[id]], id)
	}
}

func (g *TargetGraph) computeFingerprint() uint64 {
	d := xxhash.New()
	for _, id := range g.order {
		writeString(d, id.String())
		writeString(d, strconv.FormatUint(g.nodes[id].Fingerprint(), 16))
	}
	return d.Sum64()
}

// Node returns the node for an identity.
func (g *TargetGraph) Node(id TargetID) (TargetNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *TargetGraph) Len() int { return len(g.nodes) }

// Nodes returns an iterator yielding nodes in dependency order, leaves first.
func (g *TargetGraph) Nodes() iter.Seq[TargetNode] {
	return func(yield func(TargetNode) bool) {
		for _, id := range g.order {
			if !yield(g.nodes[id]) {
				return
			}
		}
	}
}

// Levels returns the topological level batches, dependencies in earlier
// batches. The returned slices must not be mutated.
func (g *TargetGraph) Levels() [][]TargetID { return g.levels }

// Fingerprint returns a content fingerprint over all nodes in topological
// order. Graphs with value-equal node sets share a fingerprint.
func (g *TargetGraph) Fingerprint() uint64 { return g.fingerprint }
