// Package graph builds knowledge graphs from study text: it promotes ranked
// keywords and tagged entities to concept nodes, infers typed relations
// between them, and prunes the result into a bounded, laid-out graph.
package graph

import (
	"math"
	"strings"
	"unicode"
)

// Node types. Every concept node carries exactly one of these.
const (
	NodeConcept    = "concept"
	NodeTopic      = "topic"
	NodeDefinition = "definition"
	NodeExample    = "example"
	NodeTheory     = "theory"
	NodeFormula    = "formula"
	NodePerson     = "person"
	NodePlace      = "place"
	NodeEvent      = "event"
)

// Relation types. Edges are directed; Bidirectional marks the symmetric ones.
const (
	RelRelatedTo  = "related_to"
	RelPartOf     = "part_of"
	RelDependsOn  = "depends_on"
	RelSimilarTo  = "similar_to"
	RelOppositeTo = "opposite_to"
	RelExampleOf  = "example_of"
	RelLeadsTo    = "leads_to"
)

// Position is a 2-D layout coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeStyle is the visual style derived from a node's importance.
type NodeStyle struct {
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Shape string  `json:"shape"`
}

// EdgeStyle is the visual style derived from an edge's weight.
type EdgeStyle struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Dashes bool    `json:"dashes"`
}

// NodeProperties holds the open but typed attribute set of a concept node.
type NodeProperties struct {
	Description     string   `json:"description"`
	Importance      float64  `json:"importance"`
	Frequency       int      `json:"frequency"`
	Difficulty      string   `json:"difficulty"`
	Synonyms        []string `json:"synonyms,omitempty"`
	SourceDocuments []string `json:"sourceDocuments,omitempty"`
}

// Node is a concept vertex. ID is derived deterministically from the label
// and unique within a graph; Importance stays in [0,1].
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	Properties NodeProperties `json:"properties"`
	Position   Position       `json:"position"`
	Style      NodeStyle      `json:"style"`
}

// EdgeProperties holds the typed attribute set of a relation edge.
type EdgeProperties struct {
	Strength        float64  `json:"strength"`
	SourceDocuments []string `json:"sourceDocuments,omitempty"`
	Evidence        string   `json:"evidence,omitempty"`
	Bidirectional   bool     `json:"bidirectional"`
}

// Edge is a typed, weighted, directed relation between two nodes of the same
// graph. Weight stays in [0,1].
type Edge struct {
	ID         string         `json:"id"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	Weight     float64        `json:"weight"`
	Properties EdgeProperties `json:"properties"`
	Style      EdgeStyle      `json:"style"`
}

// Graph is a set of concept nodes and relation edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Statistics summarizes a graph. Density is edges / (n·(n-1)/2) for n>1 and
// 0 otherwise; average degree is 2·edges/n for n>0.
type Statistics struct {
	NodeCount     int     `json:"nodeCount"`
	EdgeCount     int     `json:"edgeCount"`
	Density       float64 `json:"density"`
	AverageDegree float64 `json:"averageDegree"`
}

// ComputeStatistics derives the statistics summary for g.
func ComputeStatistics(g Graph) Statistics {
	stats := Statistics{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
	}
	n := float64(stats.NodeCount)
	if stats.NodeCount > 1 {
		stats.Density = float64(stats.EdgeCount) / (n * (n - 1) / 2)
	}
	if stats.NodeCount > 0 {
		stats.AverageDegree = 2 * float64(stats.EdgeCount) / n
	}
	return stats
}

// NormalizeID derives a stable node id from a label: lowercased, with every
// rune that is not a Latin letter, digit or CJK character replaced by an
// underscore. Two labels normalizing to the same id are the same concept.
func NormalizeID(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case unicode.Is(unicode.Han, r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// circularPosition lays node index out of total on a circle of radius 300.
func circularPosition(index, total int) Position {
	if total <= 0 {
		return Position{}
	}
	angle := float64(index) / float64(total) * 2 * math.Pi
	const radius = 300
	return Position{
		X: math.Cos(angle) * radius,
		Y: math.Sin(angle) * radius,
	}
}

// nodeStyle maps importance onto the fixed visual scale.
func nodeStyle(importance float64) NodeStyle {
	color := "#95a5a6"
	if importance > 0.7 {
		color = "#ff6b6b"
	} else if importance > 0.5 {
		color = "#4ecdc4"
	}
	return NodeStyle{
		Color: color,
		Size:  math.Max(10, importance*30),
		Shape: "circle",
	}
}

// edgeStyle maps weight onto the fixed visual scale.
func edgeStyle(weight float64) EdgeStyle {
	color := "#7f8c8d"
	if weight > 0.7 {
		color = "#2c3e50"
	}
	return EdgeStyle{
		Color:  color,
		Width:  math.Max(1, weight*3),
		Dashes: weight < 0.4,
	}
}
