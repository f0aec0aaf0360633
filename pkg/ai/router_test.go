package ai

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

type stubProvider struct {
	name  string
	fail  bool
	reply string
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.New("provider down")
	}
	return s.reply, nil
}

func (s *stubProvider) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...GenerateOption) error {
	s.calls++
	if s.fail {
		return errors.New("provider down")
	}
	return UnmarshalFlexible(s.reply, out)
}

func (s *stubProvider) GenerateChat(ctx context.Context, messages []ChatMessage, opts ...GenerateOption) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.New("provider down")
	}
	return s.reply, nil
}

func newTestRouter(providers ...Provider) *Router {
	return NewRouter(NewRouterParams{
		Providers: providers,
		Rand:      rand.New(rand.NewSource(1)),
	})
}

func TestRouter_FallsBackToSecondProvider(t *testing.T) {
	broken := &stubProvider{name: "broken", fail: true}
	healthy := &stubProvider{name: "healthy", reply: `{"questions":["什么是熵？"]}`}

	router := newTestRouter(broken, healthy)
	out, source := router.GenerateQuestions(context.Background(), "熵度量不确定性。", 3)

	if source != SourceProvider {
		t.Fatalf("expected provider result, got source %q", source)
	}
	if len(out.Questions) != 1 || out.Questions[0] != "什么是熵？" {
		t.Fatalf("unexpected questions: %v", out.Questions)
	}
	if healthy.calls != 1 {
		t.Fatalf("healthy provider should be called once, got %d", healthy.calls)
	}
}

func TestRouter_AllProvidersFailUsesHeuristics(t *testing.T) {
	router := newTestRouter(
		&stubProvider{name: "a", fail: true},
		&stubProvider{name: "b", fail: true},
	)

	text := "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。"
	out, source := router.ExtractConcepts(context.Background(), text)

	if source != SourceLocal {
		t.Fatalf("expected local result, got source %q", source)
	}
	if len(out.Concepts) == 0 {
		t.Fatal("heuristic extraction should still produce concepts")
	}
}

func TestRouter_NoProvidersConfigured(t *testing.T) {
	router := newTestRouter()
	result := router.Summarize(context.Background(), "熵度量不确定性。", 100)
	if result.Source != SourceLocal || result.Text == "" {
		t.Fatalf("expected local summary, got %+v", result)
	}
}

func TestRouter_MalformedProviderOutputRepaired(t *testing.T) {
	// Unquoted keys are repairable, so the provider result is still used.
	provider := &stubProvider{name: "sloppy", reply: `{questions: ["什么是熵？"]}`}
	router := newTestRouter(provider)

	out, source := router.GenerateQuestions(context.Background(), "熵。", 3)
	if source != SourceProvider || len(out.Questions) != 1 {
		t.Fatalf("expected repaired provider result, got %v (%s)", out, source)
	}
}

func TestRouter_SeededChoiceIsDeterministic(t *testing.T) {
	pick := func() string {
		a := &stubProvider{name: "a", reply: "sa"}
		b := &stubProvider{name: "b", reply: "sb"}
		router := newTestRouter(a, b)
		result := router.Summarize(context.Background(), "text", 100)
		return result.Text
	}

	first := pick()
	for i := 0; i < 5; i++ {
		if got := pick(); got != first {
			t.Fatalf("seeded choice changed between runs: %q vs %q", got, first)
		}
	}
}

func TestRouter_ChatFallsBackToContextSentences(t *testing.T) {
	router := newTestRouter(&stubProvider{name: "down", fail: true})
	contextText := "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。统计学也很有用。"

	result := router.Chat(context.Background(), []ChatMessage{
		{Role: "user", Message: "什么是机器学习？"},
	}, contextText)

	if result.Source != SourceLocal {
		t.Fatalf("expected local answer, got %+v", result)
	}
	if !strings.Contains(result.Text, "机器学习") {
		t.Fatalf("fallback answer should quote the context, got %q", result.Text)
	}
}

func TestRouter_ChatWithoutMatchReturnsCannedAnswer(t *testing.T) {
	router := newTestRouter(&stubProvider{name: "down", fail: true})

	result := router.Chat(context.Background(), []ChatMessage{
		{Role: "user", Message: "量子纠缠是什么？"},
	}, "机器学习属于人工智能的一个分支。")

	if result.Text != CannotAnswer {
		t.Fatalf("expected canned answer, got %q", result.Text)
	}
}

func TestRouter_ChatEmptyConversation(t *testing.T) {
	router := newTestRouter(&stubProvider{name: "down", fail: true})
	result := router.Chat(context.Background(), nil, "机器学习属于人工智能的一个分支。")
	if result.Text != CannotAnswer {
		t.Fatalf("expected canned answer for empty conversation, got %q", result.Text)
	}
}
