package qa

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
)

const studyText = "机器学习属于人工智能的一个分支。深度学习是机器学习的重要方法。统计学提供了理论基础。"

type chatProvider struct {
	fail     bool
	reply    string
	messages []ai.ChatMessage
}

func (p *chatProvider) Name() string { return "chat-stub" }

func (p *chatProvider) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	if p.fail {
		return "", errors.New("provider down")
	}
	return p.reply, nil
}

func (p *chatProvider) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	if p.fail {
		return errors.New("provider down")
	}
	return ai.UnmarshalFlexible(p.reply, out)
}

func (p *chatProvider) GenerateChat(ctx context.Context, messages []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	p.messages = messages
	if p.fail {
		return "", errors.New("provider down")
	}
	return p.reply, nil
}

func newTestResolver(providers ...ai.Provider) *Resolver {
	router := ai.NewRouter(ai.NewRouterParams{
		Providers: providers,
		Rand:      rand.New(rand.NewSource(1)),
	})
	return NewResolver(NewResolverParams{Router: router})
}

func buildTestGraph(t *testing.T) graph.Graph {
	t.Helper()
	builder := graph.NewBuilder(graph.BuilderParams{})
	g, _ := builder.Build(studyText, graph.BuildOptions{})
	if len(g.Nodes) == 0 {
		t.Fatal("test graph is empty")
	}
	return g
}

func TestAnswer_LocalFallbackQuotesDocument(t *testing.T) {
	resolver := newTestResolver(&chatProvider{fail: true})

	answer := resolver.Answer(context.Background(), Question{
		Text:         "什么是机器学习？",
		Graph:        buildTestGraph(t),
		DocumentText: studyText,
	})

	if !strings.Contains(answer.Answer, "机器学习") {
		t.Fatalf("expected answer grounded in the document, got %q", answer.Answer)
	}
	if answer.Confidence != confidenceLocal {
		t.Fatalf("expected local confidence, got %f", answer.Confidence)
	}
	if len(answer.Sources) == 0 || len(answer.Sources) > maxRelevantNodes {
		t.Fatalf("unexpected sources: %v", answer.Sources)
	}
	if len(answer.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", answer.Suggestions)
	}
}

func TestAnswer_NoMatchReturnsCannedReplyWithZeroConfidence(t *testing.T) {
	resolver := newTestResolver(&chatProvider{fail: true})

	answer := resolver.Answer(context.Background(), Question{
		Text:         "量子纠缠的贝尔不等式是什么？",
		Graph:        buildTestGraph(t),
		DocumentText: studyText,
	})

	if answer.Answer != ai.CannotAnswer {
		t.Fatalf("expected canned reply, got %q", answer.Answer)
	}
	if answer.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", answer.Confidence)
	}
	if len(answer.Suggestions) != 3 {
		t.Fatalf("expected suggestions even without an answer, got %v", answer.Suggestions)
	}
}

func TestAnswer_ProviderReplyUsedWithHighConfidence(t *testing.T) {
	provider := &chatProvider{reply: "机器学习是人工智能的分支。"}
	resolver := newTestResolver(provider)

	answer := resolver.Answer(context.Background(), Question{
		Text:         "什么是机器学习？",
		Graph:        buildTestGraph(t),
		DocumentText: studyText,
	})

	if answer.Answer != provider.reply {
		t.Fatalf("expected provider reply, got %q", answer.Answer)
	}
	if answer.Confidence != confidenceProvider {
		t.Fatalf("expected provider confidence, got %f", answer.Confidence)
	}
}

func TestAnswer_HistoryWindowIsBounded(t *testing.T) {
	provider := &chatProvider{reply: "好的。"}
	resolver := newTestResolver(provider)

	history := make([]ai.ChatMessage, 0, 9)
	for i := 0; i < 9; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, ai.ChatMessage{Role: role, Message: "旧消息"})
	}

	resolver.Answer(context.Background(), Question{
		Text:         "什么是机器学习？",
		History:      history,
		Graph:        buildTestGraph(t),
		DocumentText: studyText,
	})

	if len(provider.messages) > historyWindow+1 {
		t.Fatalf("conversation should be bounded, provider saw %d messages", len(provider.messages))
	}
}
