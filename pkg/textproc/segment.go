// Package textproc implements the statistical text analysis the processing
// pipeline is built on: sentence segmentation, heuristic tokenization for
// mixed Chinese/Latin study material, TF-ISF keyword ranking, rule-based
// entity tagging and extractive summarization.
//
// The heuristics are deliberately approximate. They trade linguistic
// correctness for determinism: the same input always produces the same
// tokens, ranks and scores.
package textproc

import (
	"strings"
	"unicode"
)

// sentence terminators for both CJK and Latin text
var sentenceEnders = map[rune]bool{
	'。': true, '！': true, '？': true,
	'.': true, '!': true, '?': true,
}

// SplitSentences splits text into trimmed, non-empty sentences. Terminator
// characters are dropped; newlines without a terminator also end a sentence
// so headings and list items become sentences of their own.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		if sentenceEnders[r] || r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return sentences
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}

// TruncateRunes returns at most max runes of s.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func isTokenRune(r rune) bool {
	return isCJK(r) || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits text into candidate terms. Non-alphanumeric, non-CJK runes
// act as separators. Continuous CJK runs carry no whitespace, so they are
// further split on a fixed set of function words (particles, copulas,
// connectives); whatever sits between two function words is taken as a term.
// Terms of a single rune and stop words are dropped.
func Tokenize(text string) []string {
	var fields []string
	var current strings.Builder
	for _, r := range text {
		if isTokenRune(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			fields = append(fields, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}

	var tokens []string
	for _, field := range fields {
		field = strings.ToLower(field)
		if strings.ContainsFunc(field, isCJK) {
			tokens = append(tokens, splitCJKRun(field)...)
			continue
		}
		tokens = append(tokens, field)
	}

	result := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if RuneLen(tok) <= 1 || IsStopWord(tok) {
			continue
		}
		result = append(result, tok)
	}
	return result
}

// splitCJKRun cuts a run of CJK text at every function word, longest match
// first, so "机器学习属于人工智能" yields 机器学习 and 人工智能.
func splitCJKRun(run string) []string {
	runes := []rune(run)
	var tokens []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = nil
		}
	}

	for i := 0; i < len(runes); {
		matched := 0
		for _, fw := range functionWords {
			fwRunes := []rune(fw)
			if len(fwRunes) > len(runes)-i {
				continue
			}
			if string(runes[i:i+len(fwRunes)]) == fw {
				matched = len(fwRunes)
				break
			}
		}
		if matched > 0 {
			flush()
			i += matched
			continue
		}
		current = append(current, runes[i])
		i++
	}
	flush()

	return tokens
}
