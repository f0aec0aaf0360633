package textproc

import (
	"math"
	"sort"
	"strings"
)

// containsTerm reports whether sentence mentions term. Latin tokens are
// lowercased during tokenization, so the comparison is case-insensitive.
func containsTerm(sentence, term string) bool {
	return strings.Contains(strings.ToLower(sentence), term)
}

// DefaultMaxKeywords is the keyword count used when a caller does not
// request a specific amount.
const DefaultMaxKeywords = 20

// Keyword is a ranked term.
type Keyword struct {
	Word      string  `json:"word"`
	Weight    float64 `json:"weight"`
	Frequency int     `json:"frequency"`
}

// ExtractKeywords ranks the terms of text by TF-ISF: term frequency
// (occurrences / total tokens) times inverse sentence frequency
// (ln(totalSentences / (sentencesContainingTerm + 1))).
//
// For documents with one sentence, or terms present in nearly every
// sentence, the ISF factor goes to zero or negative. Negative scores are
// clamped to 0; ordering among clamped terms falls back to raw frequency,
// then to first-occurrence order.
func ExtractKeywords(text string, max int) []Keyword {
	if max <= 0 {
		max = DefaultMaxKeywords
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	sentences := SplitSentences(text)

	type termStat struct {
		word  string
		freq  int
		order int
	}
	stats := make(map[string]*termStat, len(tokens))
	ordered := make([]*termStat, 0, len(tokens))
	for _, tok := range tokens {
		st, ok := stats[tok]
		if !ok {
			st = &termStat{word: tok, order: len(ordered)}
			stats[tok] = st
			ordered = append(ordered, st)
		}
		st.freq++
	}

	totalTokens := float64(len(tokens))
	totalSentences := len(sentences)

	keywords := make([]Keyword, 0, len(ordered))
	orderIndex := make(map[string]int, len(ordered))
	for _, st := range ordered {
		tf := float64(st.freq) / totalTokens

		containing := 0
		for _, sentence := range sentences {
			if containsTerm(sentence, st.word) {
				containing++
			}
		}
		isf := math.Log(float64(totalSentences) / float64(containing+1))

		score := tf * isf
		if score < 0 {
			score = 0
		}

		orderIndex[st.word] = st.order
		keywords = append(keywords, Keyword{
			Word:      st.word,
			Weight:    score,
			Frequency: st.freq,
		})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		if keywords[i].Frequency != keywords[j].Frequency {
			return keywords[i].Frequency > keywords[j].Frequency
		}
		return orderIndex[keywords[i].Word] < orderIndex[keywords[j].Word]
	})

	if len(keywords) > max {
		keywords = keywords[:max]
	}
	return keywords
}
