package graph

import (
	"strings"

	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

const (
	defaultMaxNodes    = 50
	defaultMaxKeywords = 30
)

// Builder turns raw document text into a knowledge graph. Construct one with
// NewBuilder and share it freely; it carries no mutable state.
type Builder struct {
	maxKeywords   int
	maxNodes      int
	minImportance float64
}

// BuilderParams tune a Builder. Zero values fall back to the defaults.
type BuilderParams struct {
	MaxKeywords   int
	MaxNodes      int
	MinImportance float64
}

func NewBuilder(params BuilderParams) *Builder {
	b := &Builder{
		maxKeywords:   params.MaxKeywords,
		maxNodes:      params.MaxNodes,
		minImportance: params.MinImportance,
	}
	if b.maxKeywords <= 0 {
		b.maxKeywords = defaultMaxKeywords
	}
	if b.maxNodes <= 0 {
		b.maxNodes = defaultMaxNodes
	}
	if b.minImportance <= 0 {
		b.minImportance = minKeywordImportance
	}
	return b
}

// BuildOptions scope a single build. DocumentID, when set, is recorded on
// every node and edge as the source document; MaxNodes overrides the
// builder's cap for this build only.
type BuildOptions struct {
	Title      string
	UserID     string
	DocumentID string
	MaxNodes   int
}

// Build extracts concepts and relations from text and returns the optimized
// graph together with its statistics. Empty or whitespace-only text yields
// an empty graph, never a partial one.
func (b *Builder) Build(text string, opts BuildOptions) (Graph, Statistics) {
	text = strings.TrimSpace(text)
	if text == "" {
		g := Graph{Nodes: []Node{}, Edges: []Edge{}}
		return g, ComputeStatistics(g)
	}

	keywords := textproc.ExtractKeywords(text, b.maxKeywords)
	entities := textproc.ExtractEntities(text)

	sourceDoc := opts.DocumentID
	if sourceDoc == "" {
		sourceDoc = textproc.TruncateRunes(text, 100)
	}

	nodes := buildConcepts(text, keywords, entities, sourceDoc)
	edges := extractRelations(text, nodes, sourceDoc)

	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = b.maxNodes
	}
	g := optimize(Graph{Nodes: nodes, Edges: edges}, maxNodes, b.minImportance)
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	return g, ComputeStatistics(g)
}
