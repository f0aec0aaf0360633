package graph

import (
	"regexp"
	"strings"

	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

const (
	// Promotion thresholds. Keywords need a normalized weight above
	// minKeywordImportance to become nodes; entities need a confidence
	// above minEntityConfidence.
	minKeywordImportance = 0.3
	minEntityConfidence  = 0.7

	descriptionWindow = 50
	typeWindow        = 20
)

// typeLexicons classify a keyword by scanning the characters around its first
// occurrence. First match wins; the default is a plain concept.
var typeLexicons = []struct {
	nodeType string
	pattern  *regexp.Regexp
}{
	{NodePerson, regexp.MustCompile(`教授|博士|学者|作者|professor|dr\.`)},
	{NodeTheory, regexp.MustCompile(`理论|原理|定律|theory|principle`)},
	{NodeDefinition, regexp.MustCompile(`概念|定义|concept|definition`)},
	{NodeFormula, regexp.MustCompile(`公式|方程|formula|equation`)},
	{NodeExample, regexp.MustCompile(`例子|案例|实例|example|case`)},
}

var (
	easyMarkers = regexp.MustCompile(`基础|简单|入门|basic|simple|introductory`)
	hardMarkers = regexp.MustCompile(`复杂|高级|深入|complex|advanced`)
)

// entityNodeType maps an extracted entity onto a node type. Number entities
// never become nodes on their own.
func entityNodeType(entityType string) (string, bool) {
	switch entityType {
	case textproc.EntityPerson:
		return NodePerson, true
	case textproc.EntityConcept, textproc.EntityMethod:
		return NodeConcept, true
	case textproc.EntityFormula:
		return NodeFormula, true
	default:
		return "", false
	}
}

// buildConcepts merges ranked keywords and tagged entities into concept
// nodes. When a keyword and an entity normalize to the same id, the keyword's
// importance and frequency win and the entity contributes its type.
func buildConcepts(text string, keywords []textproc.Keyword, entities []textproc.Entity, sourceDoc string) []Node {
	lower := strings.ToLower(text)

	var maxWeight float64
	maxFreq := 0
	for _, kw := range keywords {
		if kw.Weight > maxWeight {
			maxWeight = kw.Weight
		}
		if kw.Frequency > maxFreq {
			maxFreq = kw.Frequency
		}
	}

	nodes := make([]Node, 0, len(keywords)+len(entities))
	index := make(map[string]int)

	for _, kw := range keywords {
		importance := 0.0
		if maxWeight > 0 {
			importance = kw.Weight / maxWeight
		} else if maxFreq > 0 {
			// Short texts rank every term at zero; fall back to
			// relative frequency so they still yield nodes.
			importance = float64(kw.Frequency) / float64(maxFreq)
		}
		if importance <= minKeywordImportance {
			continue
		}
		id := NormalizeID(kw.Word)
		if id == "" {
			continue
		}
		if _, ok := index[id]; ok {
			continue
		}
		node := Node{
			ID:    id,
			Label: kw.Word,
			Type:  classifyConceptType(text, lower, kw.Word),
			Properties: NodeProperties{
				Description: contextDescription(text, lower, kw.Word),
				Importance:  importance,
				Frequency:   kw.Frequency,
				Difficulty:  classifyDifficulty(lower, kw.Word),
			},
			Style: nodeStyle(importance),
		}
		if sourceDoc != "" {
			node.Properties.SourceDocuments = []string{sourceDoc}
		}
		index[id] = len(nodes)
		nodes = append(nodes, node)
	}

	for _, ent := range entities {
		nodeType, ok := entityNodeType(ent.Type)
		if !ok {
			continue
		}
		if ent.Confidence <= minEntityConfidence {
			continue
		}
		id := NormalizeID(ent.Text)
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			nodes[i].Type = nodeType
			continue
		}
		node := Node{
			ID:    id,
			Label: ent.Text,
			Type:  nodeType,
			Properties: NodeProperties{
				Description: contextDescription(text, lower, ent.Text),
				Importance:  ent.Confidence,
				Frequency:   1,
				Difficulty:  classifyDifficulty(lower, ent.Text),
			},
			Style: nodeStyle(ent.Confidence),
		}
		if sourceDoc != "" {
			node.Properties.SourceDocuments = []string{sourceDoc}
		}
		index[id] = len(nodes)
		nodes = append(nodes, node)
	}

	return nodes
}

// contextWindow returns up to window runes on either side of term's first
// occurrence in text, or "" when the term does not occur.
func contextWindow(text, lower, term string, window int) string {
	pos := strings.Index(lower, strings.ToLower(term))
	if pos < 0 {
		return ""
	}
	runes := []rune(text)
	runePos := len([]rune(text[:pos]))
	start := runePos - window
	if start < 0 {
		start = 0
	}
	end := runePos + len([]rune(term)) + window
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

// contextDescription builds a node description from the surrounding text,
// with whitespace collapsed to single spaces.
func contextDescription(text, lower, term string) string {
	window := contextWindow(text, lower, term, descriptionWindow)
	if window == "" {
		return term
	}
	return strings.Join(strings.Fields(window), " ")
}

func classifyConceptType(text, lower, term string) string {
	window := strings.ToLower(contextWindow(text, lower, term, typeWindow))
	if window == "" {
		return NodeConcept
	}
	for _, lex := range typeLexicons {
		if lex.pattern.MatchString(window) {
			return lex.nodeType
		}
	}
	return NodeConcept
}

func classifyDifficulty(lower, term string) string {
	window := contextWindow(lower, lower, term, typeWindow)
	switch {
	case easyMarkers.MatchString(window):
		return "easy"
	case hardMarkers.MatchString(window):
		return "hard"
	default:
		return "medium"
	}
}
