package textproc

import "regexp"

// Entity types produced by the recognizer.
const (
	EntityPerson  = "person"
	EntityConcept = "concept"
	EntityMethod  = "method"
	EntityNumber  = "number"
	EntityFormula = "formula"
)

// ruleConfidence is fixed per rule family; it is not learned.
const ruleConfidence = 0.8

// Entity is a tagged text span.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

type entityRule struct {
	entityType string
	pattern    *regexp.Regexp
	// group selects the capture group carrying the entity text;
	// 0 means the whole match.
	group int
}

// entityRules are applied in order. A span matched by several rules is
// tagged once per rule; deduplication by label happens later, at
// concept-merge time.
var entityRules = []entityRule{
	{EntityPerson, regexp.MustCompile(`(?:教授|博士|学者|作者)\s*([^\s，。！？]+)`), 1},
	{EntityConcept, regexp.MustCompile(`(?:概念|理论|定义|原理)\s*[：:]\s*([^\s，。！？]+)`), 1},
	{EntityMethod, regexp.MustCompile(`(?:方法|技术|算法|策略)\s*[：:]\s*([^\s，。！？]+)`), 1},
	{EntityNumber, regexp.MustCompile(`\d+(?:\.\d+)?`), 0},
	{EntityFormula, regexp.MustCompile(`[a-zA-Z]\s*=\s*[^，。！？\n]+`), 0},
}

// ExtractEntities tags spans of text with coarse entity types using fixed
// regular-expression rules. Confidence is constant per rule family.
func ExtractEntities(text string) []Entity {
	var entities []Entity
	for _, rule := range entityRules {
		for _, match := range rule.pattern.FindAllStringSubmatch(text, -1) {
			value := match[0]
			if rule.group > 0 && rule.group < len(match) {
				value = match[rule.group]
			}
			if value == "" {
				continue
			}
			entities = append(entities, Entity{
				Text:       value,
				Type:       rule.entityType,
				Confidence: ruleConfidence,
			})
		}
	}
	return entities
}
