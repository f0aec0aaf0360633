package textproc

import "testing"

const keywordSample = "Quantum computing uses qubits. Classical computers use bits. " +
	"Qubits enable superposition. Superposition powers quantum algorithms."

func TestExtractKeywords_RanksAndClamps(t *testing.T) {
	keywords := ExtractKeywords(keywordSample, DefaultMaxKeywords)
	if len(keywords) == 0 {
		t.Fatal("expected keywords from non-trivial text")
	}

	for i, kw := range keywords {
		if kw.Weight < 0 {
			t.Fatalf("keyword %q has negative weight %f", kw.Word, kw.Weight)
		}
		if i > 0 && kw.Weight > keywords[i-1].Weight {
			t.Fatalf("keywords not sorted by weight: %q (%f) after %q (%f)",
				kw.Word, kw.Weight, keywords[i-1].Word, keywords[i-1].Weight)
		}
	}

	byWord := map[string]Keyword{}
	for _, kw := range keywords {
		byWord[kw.Word] = kw
	}
	if byWord["quantum"].Frequency != 2 {
		t.Fatalf("expected frequency 2 for quantum, got %d", byWord["quantum"].Frequency)
	}
	if byWord["qubits"].Frequency != 2 {
		t.Fatalf("expected frequency 2 for qubits, got %d", byWord["qubits"].Frequency)
	}
}

func TestExtractKeywords_RespectsCap(t *testing.T) {
	keywords := ExtractKeywords(keywordSample, 3)
	if len(keywords) != 3 {
		t.Fatalf("expected 3 keywords, got %d", len(keywords))
	}
}

func TestExtractKeywords_ShortTextFrequencyTieBreak(t *testing.T) {
	// With only two sentences every inverse sentence frequency is zero or
	// negative, so all weights clamp to zero and frequency decides the order.
	keywords := ExtractKeywords("机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。", 10)
	if len(keywords) == 0 {
		t.Fatal("expected keywords from short chinese text")
	}
	if keywords[0].Word != "机器学习" {
		t.Fatalf("expected most frequent term first, got %q", keywords[0].Word)
	}
	if keywords[0].Frequency != 2 {
		t.Fatalf("expected frequency 2, got %d", keywords[0].Frequency)
	}
	for _, kw := range keywords {
		if kw.Weight != 0 {
			t.Fatalf("expected clamped zero weight for %q, got %f", kw.Word, kw.Weight)
		}
	}
}

func TestExtractKeywords_EmptyText(t *testing.T) {
	if got := ExtractKeywords("", 10); len(got) != 0 {
		t.Fatalf("expected no keywords for empty text, got %v", got)
	}
}

func TestExtractKeywords_Deterministic(t *testing.T) {
	first := ExtractKeywords(keywordSample, 10)
	second := ExtractKeywords(keywordSample, 10)
	if len(first) != len(second) {
		t.Fatalf("runs disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs disagree at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
