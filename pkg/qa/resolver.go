// Package qa answers questions about a processed document by combining its
// knowledge graph with the raw text and dispatching the conversation to the
// ai router.
package qa

import (
	"context"
	"strings"
	"sync"

	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"

	"github.com/pkoukk/tiktoken-go"
)

const (
	maxRelevantNodes     = 5
	historyWindow        = 5
	minKeywordRunes      = 2
	defaultContextTokens = 2000

	confidenceProvider = 0.9
	confidenceLocal    = 0.4
)

// Resolver answers questions against one document's graph and text.
type Resolver struct {
	router           *ai.Router
	maxContextTokens int

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewResolverParams configures a Resolver. MaxContextTokens bounds the
// document context passed to the model; zero means the default.
type NewResolverParams struct {
	Router           *ai.Router
	MaxContextTokens int
}

func NewResolver(params NewResolverParams) *Resolver {
	maxTokens := params.MaxContextTokens
	if maxTokens <= 0 {
		maxTokens = defaultContextTokens
	}
	return &Resolver{
		router:           params.Router,
		maxContextTokens: maxTokens,
	}
}

// Question is one answer request.
type Question struct {
	Text         string
	History      []ai.ChatMessage
	Graph        graph.Graph
	DocumentText string
}

// Answer is the reply to a question. Confidence is 0 for the canned
// cannot-answer reply; Sources lists the graph nodes the context was built
// from.
type Answer struct {
	Answer      string   `json:"answer"`
	Confidence  float64  `json:"confidence"`
	Sources     []string `json:"sources"`
	Suggestions []string `json:"suggestions"`
}

// Answer resolves q. It never fails: when no provider is reachable the reply
// is extracted from the document, and when nothing matches the canned
// cannot-answer reply is returned with confidence 0.
func (r *Resolver) Answer(ctx context.Context, q Question) Answer {
	keywords := questionKeywords(q.Text)
	nodes := relevantNodes(q.Graph, keywords)

	contextText := r.buildContext(nodes, q.DocumentText)
	history := q.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	conversation := make([]ai.ChatMessage, 0, len(history)+1)
	conversation = append(conversation, history...)
	conversation = append(conversation, ai.ChatMessage{Role: "user", Message: q.Text})

	result := r.router.Chat(ctx, conversation, contextText)

	confidence := confidenceProvider
	if result.Source == ai.SourceLocal {
		confidence = confidenceLocal
	}
	if result.Text == ai.CannotAnswer {
		confidence = 0
	}

	sources := make([]string, 0, len(nodes))
	for _, node := range nodes {
		sources = append(sources, node.ID)
	}

	return Answer{
		Answer:      result.Text,
		Confidence:  confidence,
		Sources:     sources,
		Suggestions: suggestions(nodes, keywords),
	}
}

// questionKeywords keeps the question terms long enough to be worth matching.
func questionKeywords(question string) []string {
	var keywords []string
	for _, tok := range textproc.Tokenize(question) {
		if textproc.RuneLen(tok) > minKeywordRunes {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

// relevantNodes returns up to five nodes whose label or description mentions
// one of the keywords.
func relevantNodes(g graph.Graph, keywords []string) []graph.Node {
	var matched []graph.Node
	for _, node := range g.Nodes {
		label := strings.ToLower(node.Label)
		description := strings.ToLower(node.Properties.Description)
		for _, kw := range keywords {
			if strings.Contains(label, kw) || strings.Contains(description, kw) {
				matched = append(matched, node)
				break
			}
		}
		if len(matched) >= maxRelevantNodes {
			break
		}
	}
	return matched
}

// buildContext concatenates the matched node descriptions with the document
// text and trims the result to the token budget.
func (r *Resolver) buildContext(nodes []graph.Node, documentText string) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(node.Label)
		b.WriteString("：")
		b.WriteString(node.Properties.Description)
		b.WriteString("\n")
	}
	b.WriteString(documentText)
	return r.truncateToBudget(b.String())
}

func (r *Resolver) encoding() *tiktoken.Tiktoken {
	r.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("o200k_base")
		if err != nil {
			logger.Warn("token encoding unavailable, using rune budget", "error", err)
			return
		}
		r.enc = enc
	})
	return r.enc
}

// truncateToBudget trims text to the configured token budget. Without a
// usable encoding it approximates one token per rune.
func (r *Resolver) truncateToBudget(text string) string {
	enc := r.encoding()
	if enc == nil {
		return textproc.TruncateRunes(text, r.maxContextTokens)
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= r.maxContextTokens {
		return text
	}
	return enc.Decode(tokens[:r.maxContextTokens])
}

// suggestions proposes three follow-up questions from the matched concepts,
// or from the question keywords when the graph had nothing relevant.
func suggestions(nodes []graph.Node, keywords []string) []string {
	var topic string
	switch {
	case len(nodes) > 0:
		topic = nodes[0].Label
	case len(keywords) > 0:
		topic = keywords[0]
	default:
		return []string{"这份文档讲了什么？", "文档的核心概念有哪些？", "能总结一下文档内容吗？"}
	}
	return []string{
		"什么是" + topic + "？",
		topic + "有什么作用？",
		topic + "与文中其他概念有什么关系？",
	}
}
