package ai

import (
	"fmt"
	"strings"

	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

// CannotAnswer is the canned reply used when neither a provider nor the
// local heuristics can ground an answer in the document.
const CannotAnswer = "抱歉，我在文档中没有找到与这个问题相关的内容。"

const (
	fallbackAnswerSentences = 3
	minQuestionKeywordRunes = 2
)

// Heuristics implements every generation task locally, without a model.
// It is the router's terminal fallback and must always produce a result.
type Heuristics struct {
	builder *graph.Builder
}

func NewHeuristics(builder *graph.Builder) *Heuristics {
	if builder == nil {
		builder = graph.NewBuilder(graph.BuilderParams{})
	}
	return &Heuristics{builder: builder}
}

// ExtractConcepts derives concepts from the statistical graph build.
func (h *Heuristics) ExtractConcepts(text string) ConceptExtraction {
	g, _ := h.builder.Build(text, graph.BuildOptions{})
	out := ConceptExtraction{Concepts: make([]ExtractedConcept, 0, len(g.Nodes))}
	for _, node := range g.Nodes {
		out.Concepts = append(out.Concepts, ExtractedConcept{
			Label:       node.Label,
			Type:        node.Type,
			Description: node.Properties.Description,
			Importance:  node.Properties.Importance,
		})
	}
	return out
}

// ExtractRelations derives relations from the statistical graph build.
func (h *Heuristics) ExtractRelations(text string) RelationExtraction {
	g, _ := h.builder.Build(text, graph.BuildOptions{})
	labels := make(map[string]string, len(g.Nodes))
	for _, node := range g.Nodes {
		labels[node.ID] = node.Label
	}
	out := RelationExtraction{Relations: make([]ExtractedRelation, 0, len(g.Edges))}
	for _, edge := range g.Edges {
		out.Relations = append(out.Relations, ExtractedRelation{
			From:   labels[edge.From],
			To:     labels[edge.To],
			Type:   edge.Type,
			Weight: edge.Weight,
		})
	}
	return out
}

// GenerateQuestions produces template questions about the highest ranked
// terms of the text.
func (h *Heuristics) GenerateQuestions(text string, count int) QuestionSet {
	if count <= 0 {
		count = 3
	}
	templates := []string{
		"什么是%s？",
		"%s有什么作用？",
		"%s与文中其他概念有什么关系？",
	}

	keywords := textproc.ExtractKeywords(text, count)
	out := QuestionSet{Questions: make([]string, 0, count)}
	for i, kw := range keywords {
		if len(out.Questions) >= count {
			break
		}
		out.Questions = append(out.Questions, fmt.Sprintf(templates[i%len(templates)], kw.Word))
	}
	return out
}

// Summarize produces an extractive summary.
func (h *Heuristics) Summarize(text string, maxLength int) string {
	return textproc.Summarize(text, maxLength)
}

// Answer picks up to three sentences from the context that mention keywords
// of the question. The second return reports whether anything matched; when
// false the answer is the canned cannot-answer reply.
func (h *Heuristics) Answer(question, contextText string) (string, bool) {
	var keywords []string
	for _, tok := range textproc.Tokenize(question) {
		if textproc.RuneLen(tok) > minQuestionKeywordRunes {
			keywords = append(keywords, tok)
		}
	}

	var matched []string
	for _, sentence := range textproc.SplitSentences(contextText) {
		lower := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, sentence)
				break
			}
		}
		if len(matched) >= fallbackAnswerSentences {
			break
		}
	}

	if len(matched) == 0 {
		return CannotAnswer, false
	}
	return strings.Join(matched, "。") + "。", true
}
