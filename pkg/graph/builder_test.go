package graph

import (
	"strings"
	"testing"
)

func TestBuild_ChineseConceptHierarchy(t *testing.T) {
	builder := NewBuilder(BuilderParams{})
	text := "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。"

	g, stats := builder.Build(text, BuildOptions{MaxNodes: 10})

	for _, label := range []string{"机器学习", "人工智能", "深度学习"} {
		if findNode(g, NormalizeID(label)) == nil {
			t.Fatalf("expected node %q, got %v", label, nodeIDs(g))
		}
	}

	var partOf bool
	for _, edge := range g.Edges {
		if edge.Type == RelPartOf && edge.Weight >= 0.3 {
			partOf = true
		}
	}
	if !partOf {
		t.Fatalf("expected a part_of edge with weight >= 0.3, got %v", g.Edges)
	}

	if stats.NodeCount != len(g.Nodes) || stats.EdgeCount != len(g.Edges) {
		t.Fatalf("statistics disagree with graph: %+v", stats)
	}
}

func TestBuild_NoDanglingEdgesOrOutOfRangeScores(t *testing.T) {
	builder := NewBuilder(BuilderParams{})
	text := "监督学习需要标注数据。无监督学习从数据中发现结构。" +
		"强化学习通过奖励优化策略。标注数据的质量决定监督学习的上限。"

	g, _ := builder.Build(text, BuildOptions{})

	present := map[string]bool{}
	for _, node := range g.Nodes {
		present[node.ID] = true
		if node.Properties.Importance < 0 || node.Properties.Importance > 1 {
			t.Fatalf("importance out of range on %q: %f", node.Label, node.Properties.Importance)
		}
	}
	for _, edge := range g.Edges {
		if !present[edge.From] || !present[edge.To] {
			t.Fatalf("dangling edge %q: %s -> %s", edge.ID, edge.From, edge.To)
		}
		if edge.Weight < 0 || edge.Weight > 1 {
			t.Fatalf("weight out of range on %q: %f", edge.ID, edge.Weight)
		}
	}
}

func TestBuild_EmptyText(t *testing.T) {
	builder := NewBuilder(BuilderParams{})
	g, stats := builder.Build("   \n ", BuildOptions{})
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Fatalf("expected empty graph, got %d nodes %d edges", len(g.Nodes), len(g.Edges))
	}
	if stats.NodeCount != 0 || stats.Density != 0 || stats.AverageDegree != 0 {
		t.Fatalf("expected zero statistics, got %+v", stats)
	}
}

func TestBuild_MaxNodesCap(t *testing.T) {
	builder := NewBuilder(BuilderParams{})
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("监督学习需要标注数据和特征工程以及模型评估。")
	}
	g, _ := builder.Build(sb.String(), BuildOptions{MaxNodes: 3})
	if len(g.Nodes) > 3 {
		t.Fatalf("expected at most 3 nodes, got %d", len(g.Nodes))
	}
}

func TestBuild_RecordsSourceDocument(t *testing.T) {
	builder := NewBuilder(BuilderParams{})
	g, _ := builder.Build("机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。",
		BuildOptions{DocumentID: "doc_123"})
	if len(g.Nodes) == 0 {
		t.Fatal("expected nodes")
	}
	for _, node := range g.Nodes {
		if len(node.Properties.SourceDocuments) != 1 || node.Properties.SourceDocuments[0] != "doc_123" {
			t.Fatalf("node %q missing source document: %v", node.Label, node.Properties.SourceDocuments)
		}
	}
}

func findNode(g Graph, id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

func nodeIDs(g Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		ids = append(ids, node.ID)
	}
	return ids
}
