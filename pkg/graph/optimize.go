package graph

import "sort"

const isolatedKeepImportance = 0.8

// optimize prunes and lays out a raw graph. The steps run in a fixed order:
// drop nodes below the importance floor, cap the node count keeping the most
// important ones, drop edges with a missing endpoint, drop isolated nodes
// unless they are highly important, and finally assign circular positions.
func optimize(g Graph, maxNodes int, minImportance float64) Graph {
	kept := make([]Node, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		if node.Properties.Importance >= minImportance {
			kept = append(kept, node)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Properties.Importance > kept[j].Properties.Importance
	})
	if maxNodes > 0 && len(kept) > maxNodes {
		kept = kept[:maxNodes]
	}

	present := make(map[string]bool, len(kept))
	for _, node := range kept {
		present[node.ID] = true
	}

	edges := make([]Edge, 0, len(g.Edges))
	degree := make(map[string]int, len(kept))
	for _, edge := range g.Edges {
		if !present[edge.From] || !present[edge.To] {
			continue
		}
		edges = append(edges, edge)
		degree[edge.From]++
		degree[edge.To]++
	}

	nodes := kept[:0]
	for _, node := range kept {
		if degree[node.ID] == 0 && node.Properties.Importance <= isolatedKeepImportance {
			continue
		}
		nodes = append(nodes, node)
	}

	for i := range nodes {
		nodes[i].Position = circularPosition(i, len(nodes))
	}

	return Graph{Nodes: nodes, Edges: edges}
}
