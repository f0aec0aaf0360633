package textproc

import (
	"strings"
	"testing"
)

func TestSummarize_ShortTextReturnedAsIs(t *testing.T) {
	text := "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。"
	if got := Summarize(text, 300); got != text {
		t.Fatalf("short text should pass through: got %q", got)
	}
}

func TestSummarize_TruncatesToLimit(t *testing.T) {
	text := "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。"
	got := Summarize(text, 10)
	if RuneLen(got) != 10 {
		t.Fatalf("expected 10 runes, got %d (%q)", RuneLen(got), got)
	}
}

func TestSummarize_PicksThreeSentences(t *testing.T) {
	text := strings.Join([]string{
		"机器学习是人工智能领域里发展最快的分支之一。",
		"监督学习需要标注数据来训练模型参数。",
		"无监督学习从未标注的数据中发现结构。",
		"强化学习通过奖励信号优化决策策略。",
		"迁移学习把已有模型的知识应用到新任务。",
		"这些方法共同构成了现代机器学习的基础。",
	}, "。") + "。"

	got := Summarize(text, DefaultSummaryLength)
	if got == "" {
		t.Fatal("expected non-empty summary")
	}
	parts := strings.Split(strings.TrimSuffix(got, "。"), "。")
	if len(parts) != 3 {
		t.Fatalf("expected 3 sentences in summary, got %d: %q", len(parts), got)
	}
	for _, part := range parts {
		if !strings.Contains(text, part) {
			t.Fatalf("summary sentence %q not taken from the text", part)
		}
	}
}

func TestSummarize_DefaultLength(t *testing.T) {
	text := strings.Repeat("机器学习改变了软件工程的面貌。", 60)
	got := Summarize(text, 0)
	if RuneLen(got) > DefaultSummaryLength {
		t.Fatalf("summary exceeds default cap: %d runes", RuneLen(got))
	}
}
