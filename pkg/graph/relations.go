package graph

import (
	"regexp"
	"strings"

	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

const (
	minCooccurrenceStrength = 0.3
	patternWeight           = 0.8
	minRelationSentenceLen  = 10
	maxEvidenceRunes        = 100
)

// relationTrigger maps a substring found in a shared sentence onto a relation
// type. First trigger wins; sentences with no trigger fall back to related_to.
var relationTriggers = []struct {
	relType  string
	markers  []string
	symmetry bool
}{
	{RelPartOf, []string{"属于", "是一种", "belongs to", "is a kind of"}, false},
	{RelLeadsTo, []string{"导致", "引起", "causes", "leads to"}, false},
	{RelDependsOn, []string{"依赖", "需要", "depends on", "requires"}, false},
	{RelSimilarTo, []string{"相似", "类似", "similar"}, true},
}

// relationPatterns extract explicit statements of the form "X 属于 Y" straight
// from the raw text, independent of the co-occurrence pass.
var relationPatterns = []struct {
	relType string
	pattern *regexp.Regexp
}{
	{RelPartOf, regexp.MustCompile(`([^，。！？\s]+)属于([^，。！？\s]+)`)},
	{RelExampleOf, regexp.MustCompile(`([^，。！？\s]+)是([^，。！？\s]+)的例子`)},
	{RelLeadsTo, regexp.MustCompile(`([^，。！？\s]+)导致([^，。！？\s]+)`)},
	{RelDependsOn, regexp.MustCompile(`([^，。！？\s]+)依赖于([^，。！？\s]+)`)},
	{RelPartOf, regexp.MustCompile(`([A-Za-z][A-Za-z ]*?) belongs to ([A-Za-z][A-Za-z ]*)`)},
	{RelExampleOf, regexp.MustCompile(`([A-Za-z][A-Za-z ]*?) is an example of ([A-Za-z][A-Za-z ]*)`)},
	{RelLeadsTo, regexp.MustCompile(`([A-Za-z][A-Za-z ]*?) causes ([A-Za-z][A-Za-z ]*)`)},
	{RelDependsOn, regexp.MustCompile(`([A-Za-z][A-Za-z ]*?) depends on ([A-Za-z][A-Za-z ]*)`)},
}

// extractRelations runs the co-occurrence pass and the pattern pass and
// returns the union of both edge sets. The passes are independent and their
// edges are not deduplicated against each other.
func extractRelations(text string, nodes []Node, sourceDoc string) []Edge {
	edges := cooccurrenceEdges(text, nodes, sourceDoc)
	edges = append(edges, patternEdges(text, nodes, sourceDoc)...)
	return edges
}

// cooccurrenceEdges links every pair of concepts that share a sentence. The
// strength grows with the number of shared sentences relative to the text.
func cooccurrenceEdges(text string, nodes []Node, sourceDoc string) []Edge {
	var sentences []string
	for _, s := range textproc.SplitSentences(text) {
		if textproc.RuneLen(s) > minRelationSentenceLen {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	var edges []Edge
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			count := 0
			evidence := ""
			for _, sentence := range sentences {
				lower := strings.ToLower(sentence)
				if strings.Contains(lower, strings.ToLower(nodes[i].Label)) &&
					strings.Contains(lower, strings.ToLower(nodes[j].Label)) {
					count++
					if evidence == "" {
						evidence = sentence
					}
				}
			}
			if count == 0 {
				continue
			}
			strength := 10 * float64(count) / float64(len(sentences))
			if strength > 1 {
				strength = 1
			}
			if strength <= minCooccurrenceStrength {
				continue
			}
			relType, bidirectional := classifyRelation(evidence)
			edges = append(edges, newEdge(nodes[i].ID, nodes[j].ID, relType, strength, evidence, bidirectional, sourceDoc))
		}
	}
	return edges
}

// classifyRelation picks the relation type for a shared sentence from the
// first trigger substring it contains.
func classifyRelation(sentence string) (string, bool) {
	lower := strings.ToLower(sentence)
	for _, trig := range relationTriggers {
		for _, marker := range trig.markers {
			if strings.Contains(lower, marker) {
				return trig.relType, trig.symmetry
			}
		}
	}
	return RelRelatedTo, true
}

// patternEdges extracts explicitly stated relations and resolves each capture
// to the first concept it contains by substring.
func patternEdges(text string, nodes []Node, sourceDoc string) []Edge {
	var edges []Edge
	for _, pat := range relationPatterns {
		for _, match := range pat.pattern.FindAllStringSubmatch(text, -1) {
			from := resolveConcept(nodes, match[1])
			to := resolveConcept(nodes, match[2])
			if from == nil || to == nil || from.ID == to.ID {
				continue
			}
			evidence := match[0]
			edges = append(edges, newEdge(from.ID, to.ID, pat.relType, patternWeight, evidence, false, sourceDoc))
		}
	}
	return edges
}

// resolveConcept finds the first node whose label is contained in the capture
// or contains it. Returns nil when nothing matches.
func resolveConcept(nodes []Node, capture string) *Node {
	capture = strings.ToLower(strings.TrimSpace(capture))
	if capture == "" {
		return nil
	}
	for i := range nodes {
		label := strings.ToLower(nodes[i].Label)
		if strings.Contains(capture, label) || strings.Contains(label, capture) {
			return &nodes[i]
		}
	}
	return nil
}

func newEdge(from, to, relType string, weight float64, evidence string, bidirectional bool, sourceDoc string) Edge {
	edge := Edge{
		ID:     NormalizeID(from + "-" + to + "-" + relType),
		From:   from,
		To:     to,
		Label:  relType,
		Type:   relType,
		Weight: weight,
		Properties: EdgeProperties{
			Strength:      weight,
			Evidence:      textproc.TruncateRunes(evidence, maxEvidenceRunes),
			Bidirectional: bidirectional,
		},
		Style: edgeStyle(weight),
	}
	if sourceDoc != "" {
		edge.Properties.SourceDocuments = []string{sourceDoc}
	}
	return edge
}
