package graph

import (
	"strings"
	"testing"

	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

func TestBuildConcepts_KeywordEntityMerge(t *testing.T) {
	text := "张伟教授 张伟 研究机器学习。张伟 发表了很多论文。张伟 指导学生。"
	keywords := []textproc.Keyword{
		{Word: "张伟", Weight: 0.5, Frequency: 3},
		{Word: "机器学习", Weight: 0.25, Frequency: 1},
	}
	entities := []textproc.Entity{
		{Text: "张伟", Type: textproc.EntityPerson, Confidence: 0.8},
	}

	nodes := buildConcepts(text, keywords, entities, "doc_1")

	node := findByID(nodes, NormalizeID("张伟"))
	if node == nil {
		t.Fatalf("expected merged node, got %v", nodes)
	}
	if node.Type != NodePerson {
		t.Fatalf("entity type should win on merge, got %q", node.Type)
	}
	if node.Properties.Frequency != 3 {
		t.Fatalf("keyword frequency should win on merge, got %d", node.Properties.Frequency)
	}
	if node.Properties.Importance != 1 {
		t.Fatalf("keyword importance should win on merge, got %f", node.Properties.Importance)
	}
}

func TestBuildConcepts_Thresholds(t *testing.T) {
	text := "机器学习和统计推断都很重要。"
	keywords := []textproc.Keyword{
		{Word: "机器学习", Weight: 0.5, Frequency: 2},
		{Word: "统计推断", Weight: 0.1, Frequency: 1},
	}
	entities := []textproc.Entity{
		{Text: "贝叶斯", Type: textproc.EntityConcept, Confidence: 0.6},
	}

	nodes := buildConcepts(text, keywords, entities, "")

	if findByID(nodes, NormalizeID("机器学习")) == nil {
		t.Fatal("keyword above the importance floor should become a node")
	}
	if findByID(nodes, NormalizeID("统计推断")) != nil {
		t.Fatal("keyword below the importance floor should be skipped")
	}
	if findByID(nodes, NormalizeID("贝叶斯")) != nil {
		t.Fatal("low-confidence entity should be skipped")
	}
}

func TestBuildConcepts_NumberEntitiesNeverPromote(t *testing.T) {
	nodes := buildConcepts("阈值是0.5。", nil, []textproc.Entity{
		{Text: "0.5", Type: textproc.EntityNumber, Confidence: 0.8},
	}, "")
	if len(nodes) != 0 {
		t.Fatalf("number entities should not become nodes, got %v", nodes)
	}
}

func TestBuildConcepts_DifficultyFromContext(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"easy marker", "入门课程先讲梯度下降的直观含义。", "easy"},
		{"hard marker", "高级课程深入讨论梯度下降的收敛性。", "hard"},
		{"no marker", "课程讨论梯度下降。", "medium"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := buildConcepts(tt.text, []textproc.Keyword{
				{Word: "梯度下降", Weight: 0.5, Frequency: 1},
			}, nil, "")
			if len(nodes) != 1 {
				t.Fatalf("expected one node, got %v", nodes)
			}
			if got := nodes[0].Properties.Difficulty; got != tt.want {
				t.Fatalf("unexpected difficulty: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyConceptType(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		want string
	}{
		{"person context", "张伟教授 提出了张伟算子。", "张伟", NodePerson},
		{"theory context", "信息论的基本原理由香农给出。", "信息论", NodeTheory},
		{"formula context", "贝叶斯公式描述条件概率。", "贝叶斯", NodeFormula},
		{"plain concept", "梯度下降更新参数。", "梯度下降", NodeConcept},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyConceptType(tt.text, strings.ToLower(tt.text), tt.term)
			if got != tt.want {
				t.Fatalf("unexpected type: got %q, want %q", got, tt.want)
			}
		})
	}
}

func findByID(nodes []Node, id string) *Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}
