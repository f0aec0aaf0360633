package graph

import "testing"

func TestClassifyRelation(t *testing.T) {
	tests := []struct {
		sentence      string
		wantType      string
		bidirectional bool
	}{
		{"深度学习属于机器学习的范畴", RelPartOf, false},
		{"过拟合导致泛化能力下降", RelLeadsTo, false},
		{"反向传播依赖链式法则", RelDependsOn, false},
		{"随机森林与装袋法相似", RelSimilarTo, true},
		{"梯度下降更新模型参数不断迭代", RelRelatedTo, true},
	}
	for _, tt := range tests {
		gotType, gotBi := classifyRelation(tt.sentence)
		if gotType != tt.wantType || gotBi != tt.bidirectional {
			t.Fatalf("classifyRelation(%q) = %q/%v, want %q/%v",
				tt.sentence, gotType, gotBi, tt.wantType, tt.bidirectional)
		}
	}
}

func TestPatternEdges_ResolvesConceptsBySubstring(t *testing.T) {
	nodes := []Node{
		{ID: "机器学习", Label: "机器学习"},
		{ID: "人工智能", Label: "人工智能"},
	}
	edges := patternEdges("机器学习属于人工智能的范畴。", nodes, "doc_9")
	if len(edges) != 1 {
		t.Fatalf("expected one pattern edge, got %v", edges)
	}
	edge := edges[0]
	if edge.From != "机器学习" || edge.To != "人工智能" || edge.Type != RelPartOf {
		t.Fatalf("unexpected edge: %+v", edge)
	}
	if edge.Weight != patternWeight {
		t.Fatalf("unexpected weight: %f", edge.Weight)
	}
	if edge.Properties.Evidence == "" {
		t.Fatal("pattern edge should carry evidence")
	}
	if len(edge.Properties.SourceDocuments) != 1 || edge.Properties.SourceDocuments[0] != "doc_9" {
		t.Fatalf("unexpected source documents: %v", edge.Properties.SourceDocuments)
	}
}

func TestPatternEdges_UnresolvedCaptureDropped(t *testing.T) {
	nodes := []Node{{ID: "机器学习", Label: "机器学习"}}
	edges := patternEdges("机器学习属于人工智能的范畴。", nodes, "")
	if len(edges) != 0 {
		t.Fatalf("capture without a matching concept should be dropped, got %v", edges)
	}
}

func TestCooccurrenceEdges_SkipsShortSentences(t *testing.T) {
	nodes := []Node{
		{ID: "熵", Label: "熵"},
		{ID: "信息", Label: "信息"},
	}
	edges := cooccurrenceEdges("熵度量信息。", nodes, "")
	if len(edges) != 0 {
		t.Fatalf("sentences of ten runes or fewer should be ignored, got %v", edges)
	}
}

func TestCooccurrenceEdges_StrengthCappedAtOne(t *testing.T) {
	nodes := []Node{
		{ID: "监督学习", Label: "监督学习"},
		{ID: "标注数据", Label: "标注数据"},
	}
	edges := cooccurrenceEdges("监督学习的效果取决于标注数据的规模和质量。", nodes, "")
	if len(edges) != 1 {
		t.Fatalf("expected one edge, got %v", edges)
	}
	if edges[0].Weight != 1 {
		t.Fatalf("expected capped weight 1, got %f", edges[0].Weight)
	}
}
