package graph

import (
	"math"
	"testing"
)

func testNode(id string, importance float64) Node {
	return Node{
		ID:    id,
		Label: id,
		Type:  NodeConcept,
		Properties: NodeProperties{
			Importance: importance,
		},
	}
}

func testEdge(from, to string) Edge {
	return Edge{
		ID:     NormalizeID(from + "-" + to),
		From:   from,
		To:     to,
		Type:   RelRelatedTo,
		Weight: 0.5,
	}
}

func TestOptimize_DropsDanglingEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{testNode("a", 0.9), testNode("b", 0.6)},
		Edges: []Edge{testEdge("a", "b"), testEdge("a", "ghost")},
	}
	out := optimize(g, 10, 0.3)
	if len(out.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %v", out.Edges)
	}
	if out.Edges[0].To != "b" {
		t.Fatalf("kept the wrong edge: %+v", out.Edges[0])
	}
}

func TestOptimize_DropsIsolatedUnlessImportant(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			testNode("a", 0.9),
			testNode("b", 0.6),
			testNode("lonely", 0.5),
			testNode("anchor", 0.95),
		},
		Edges: []Edge{testEdge("a", "b")},
	}
	out := optimize(g, 10, 0.3)
	ids := map[string]bool{}
	for _, node := range out.Nodes {
		ids[node.ID] = true
	}
	if ids["lonely"] {
		t.Fatal("isolated low-importance node should be dropped")
	}
	if !ids["anchor"] {
		t.Fatal("isolated high-importance node should survive")
	}
}

func TestOptimize_CapsNodesByImportance(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			testNode("low", 0.4),
			testNode("high", 0.9),
			testNode("mid", 0.6),
		},
		Edges: []Edge{testEdge("low", "high"), testEdge("high", "mid")},
	}
	out := optimize(g, 2, 0.3)
	if len(out.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %v", out.Nodes)
	}
	if out.Nodes[0].ID != "high" || out.Nodes[1].ID != "mid" {
		t.Fatalf("cap should keep the most important nodes: %v", out.Nodes)
	}
}

func TestOptimize_FiltersBelowImportanceFloor(t *testing.T) {
	g := Graph{
		Nodes: []Node{testNode("weak", 0.1), testNode("strong", 0.85)},
		Edges: []Edge{testEdge("weak", "strong")},
	}
	out := optimize(g, 10, 0.3)
	if len(out.Nodes) != 1 || out.Nodes[0].ID != "strong" {
		t.Fatalf("expected only the strong node, got %v", out.Nodes)
	}
	if len(out.Edges) != 0 {
		t.Fatalf("edge to a filtered node should be dropped: %v", out.Edges)
	}
}

func TestOptimize_AssignsCircularPositions(t *testing.T) {
	g := Graph{
		Nodes: []Node{testNode("a", 0.9), testNode("b", 0.8), testNode("c", 0.85)},
		Edges: []Edge{testEdge("a", "b"), testEdge("b", "c"), testEdge("a", "c")},
	}
	out := optimize(g, 10, 0.3)
	for _, node := range out.Nodes {
		radius := math.Hypot(node.Position.X, node.Position.Y)
		if math.Abs(radius-300) > 1e-9 {
			t.Fatalf("node %q off the layout circle: %+v", node.ID, node.Position)
		}
	}
}

func TestComputeStatistics(t *testing.T) {
	g := Graph{
		Nodes: []Node{testNode("a", 1), testNode("b", 1), testNode("c", 1)},
		Edges: []Edge{testEdge("a", "b"), testEdge("b", "c")},
	}
	stats := ComputeStatistics(g)
	if stats.NodeCount != 3 || stats.EdgeCount != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if math.Abs(stats.Density-2.0/3.0) > 1e-9 {
		t.Fatalf("unexpected density: %f", stats.Density)
	}
	if math.Abs(stats.AverageDegree-4.0/3.0) > 1e-9 {
		t.Fatalf("unexpected average degree: %f", stats.AverageDegree)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"机器学习", "机器学习"},
		{"Deep Learning", "deep_learning"},
		{"K-Means", "k_means"},
		{"熵(entropy)", "熵_entropy_"},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.input); got != tt.want {
			t.Fatalf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStyleScales(t *testing.T) {
	if s := nodeStyle(0.9); s.Color != "#ff6b6b" || s.Size != 27 {
		t.Fatalf("unexpected high-importance style: %+v", s)
	}
	if s := nodeStyle(0.6); s.Color != "#4ecdc4" {
		t.Fatalf("unexpected mid-importance style: %+v", s)
	}
	if s := nodeStyle(0.1); s.Color != "#95a5a6" || s.Size != 10 {
		t.Fatalf("unexpected low-importance style: %+v", s)
	}
	if s := edgeStyle(0.8); s.Color != "#2c3e50" || s.Dashes {
		t.Fatalf("unexpected strong-edge style: %+v", s)
	}
	if s := edgeStyle(0.3); s.Color != "#7f8c8d" || !s.Dashes || s.Width != 1 {
		t.Fatalf("unexpected weak-edge style: %+v", s)
	}
}
