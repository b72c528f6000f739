package ecs

import "sort"

// conflictGraph is the undirected graph of "cannot run in parallel" edges
// between one stage's systems.
//
// Grounded on original_source/crates/gravitron_ecs/src/scheduler/graph.rs's
// Graph/ColoredGraph, ported faithfully: edges from metadata overlap, a
// greedy max-residual-degree seeded colouring, growing each class with the
// candidate that has the most neighbours already adjacent to it, and a final
// ascending-size sort of the colour classes.
type conflictGraph struct {
	n     int
	edges [][]bool
}

func buildConflictGraph(metas []*systemMeta) *conflictGraph {
	n := len(metas)
	edges := make([][]bool, n)
	for i := range edges {
		edges[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if conflict, _ := overlaps(metas[i], metas[j]); conflict {
				edges[i][j] = true
				edges[j][i] = true
			}
		}
	}
	return &conflictGraph{n: n, edges: edges}
}

func (g *conflictGraph) neighbors(v int) []int {
	out := make([]int, 0, g.n)
	for i := 0; i < g.n; i++ {
		if g.edges[v][i] {
			out = append(out, i)
		}
	}
	return out
}

// colour greedily partitions the graph's vertices into independent sets
// ("colour classes"), returning them sorted by ascending size.
func (g *conflictGraph) colour() [][]int {
	remaining := make(map[int]bool, g.n)
	for i := 0; i < g.n; i++ {
		remaining[i] = true
	}

	var classes [][]int

	for len(remaining) > 0 {
		seed := pickMaxResidualDegree(g, remaining)
		class := []int{seed}
		delete(remaining, seed)

		adjacentToClass := make(map[int]bool)
		for _, nb := range g.neighbors(seed) {
			adjacentToClass[nb] = true
		}

		for {
			candidates := make([]int, 0, len(remaining))
			for v := range remaining {
				if !adjacentToClass[v] {
					candidates = append(candidates, v)
				}
			}
			if len(candidates) == 0 {
				break
			}
			sort.Ints(candidates)

			best, bestScore := candidates[0], -1
			for _, v := range candidates {
				score := 0
				for _, nb := range g.neighbors(v) {
					if adjacentToClass[nb] {
						score++
					}
				}
				if score > bestScore {
					bestScore = score
					best = v
				}
			}

			class = append(class, best)
			delete(remaining, best)
			for _, nb := range g.neighbors(best) {
				adjacentToClass[nb] = true
			}
		}

		classes = append(classes, class)
	}

	sort.Slice(classes, func(i, j int) bool { return len(classes[i]) < len(classes[j]) })
	return classes
}

func pickMaxResidualDegree(g *conflictGraph, remaining map[int]bool) int {
	best, bestDeg := -1, -1
	verts := make([]int, 0, len(remaining))
	for v := range remaining {
		verts = append(verts, v)
	}
	sort.Ints(verts)
	for _, v := range verts {
		deg := 0
		for _, nb := range g.neighbors(v) {
			if remaining[nb] {
				deg++
			}
		}
		if deg > bestDeg {
			bestDeg = deg
			best = v
		}
	}
	return best
}

// noTwoAdjacentInSameColour reports whether colouring is valid: used only
// in tests, mirroring the Rust source's own colouring unit test.
func (g *conflictGraph) noTwoAdjacentInSameColour(classes [][]int) bool {
	for _, class := range classes {
		for i := 0; i < len(class); i++ {
			for j := i + 1; j < len(class); j++ {
				if g.edges[class[i]][class[j]] {
					return false
				}
			}
		}
	}
	return true
}
