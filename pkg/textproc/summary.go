package textproc

import (
	"sort"
	"strings"
)

// minSummarySentenceLen filters out headings and fragments when scoring
// sentences for the summary.
const minSummarySentenceLen = 10

// DefaultSummaryLength caps the summary when the caller does not give one.
const DefaultSummaryLength = 300

// Summarize produces an extractive summary: sentences are scored by keyword
// density, position (openings and endings weigh more) and length, and the
// top three are joined in score order. Documents of three sentences or fewer
// are returned as-is, truncated to maxLength runes.
func Summarize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}

	sentences := substantialSentences(text)
	if len(sentences) <= 3 {
		return TruncateRunes(strings.TrimSpace(text), maxLength)
	}

	type scored struct {
		sentence string
		score    float64
	}
	ranked := make([]scored, 0, len(sentences))
	for _, sentence := range sentences {
		ranked = append(ranked, scored{sentence, sentenceScore(sentence, text)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	top := make([]string, 0, 3)
	for i := 0; i < 3 && i < len(ranked); i++ {
		top = append(top, ranked[i].sentence)
	}

	return TruncateRunes(strings.Join(top, "。")+"。", maxLength)
}

// substantialSentences returns the sentences long enough to carry content.
func substantialSentences(text string) []string {
	var result []string
	for _, s := range SplitSentences(text) {
		if RuneLen(s) > minSummarySentenceLen {
			result = append(result, s)
		}
	}
	return result
}

// sentenceScore weighs keyword density (0.4), document position (0.3 for the
// first and last fifth) and a medium-length bonus (0.3).
func sentenceScore(sentence, fullText string) float64 {
	length := RuneLen(sentence)
	if length == 0 {
		return 0
	}

	tokens := Tokenize(sentence)
	score := float64(len(tokens)) / float64(length) * 0.4

	if idx := strings.Index(fullText, sentence); idx >= 0 && len(fullText) > 0 {
		position := float64(idx) / float64(len(fullText))
		if position < 0.2 || position > 0.8 {
			score += 0.3
		}
	}

	if length > 20 && length < 100 {
		score += 0.3
	}

	return score
}
