package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// Router dispatches generation tasks to the configured providers. For every
// request it picks a random provider, retries once on the other ones, and
// falls back to the local heuristics when all providers fail. A Router never
// returns an error to its caller; the result source tells heuristic results
// apart from model results.
type Router struct {
	providers []Provider
	local     *Heuristics

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRouterParams configures a Router.
//
// Providers may be empty; every task then runs on the local heuristics.
// Rand drives the provider choice and can be seeded for deterministic tests;
// when nil a time-seeded source is used.
type NewRouterParams struct {
	Providers []Provider
	Local     *Heuristics
	Rand      *rand.Rand
}

func NewRouter(params NewRouterParams) *Router {
	rnd := params.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	local := params.Local
	if local == nil {
		local = NewHeuristics(nil)
	}
	return &Router{
		providers: params.Providers,
		local:     local,
		rnd:       rnd,
	}
}

// order returns the provider indices in dispatch order. The first slot is
// uniformly random, so two providers split the traffic evenly.
func (r *Router) order() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := make([]int, len(r.providers))
	for i := range order {
		order[i] = i
	}
	r.rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// ExtractConcepts asks a provider for the concepts of text, falling back to
// the statistical extraction.
func (r *Router) ExtractConcepts(ctx context.Context, text string) (ConceptExtraction, string) {
	for _, i := range r.order() {
		provider := r.providers[i]
		var out ConceptExtraction
		err := provider.GenerateCompletionWithFormat(ctx,
			"concept_extraction", "Key concepts of the material",
			conceptPrompt(text), &out)
		if err == nil {
			return out, SourceProvider
		}
		logger.Warn("concept extraction failed", "provider", provider.Name(), "error", err)
	}
	return r.local.ExtractConcepts(text), SourceLocal
}

// ExtractRelations asks a provider for relations between concepts, falling
// back to the statistical extraction.
func (r *Router) ExtractRelations(ctx context.Context, text string, concepts []string) (RelationExtraction, string) {
	for _, i := range r.order() {
		provider := r.providers[i]
		var out RelationExtraction
		err := provider.GenerateCompletionWithFormat(ctx,
			"relation_extraction", "Relations between the listed concepts",
			relationPrompt(text, concepts), &out)
		if err == nil {
			return out, SourceProvider
		}
		logger.Warn("relation extraction failed", "provider", provider.Name(), "error", err)
	}
	return r.local.ExtractRelations(text), SourceLocal
}

// GenerateQuestions asks a provider for study questions, falling back to
// template questions over the top keywords.
func (r *Router) GenerateQuestions(ctx context.Context, text string, count int) (QuestionSet, string) {
	for _, i := range r.order() {
		provider := r.providers[i]
		var out QuestionSet
		err := provider.GenerateCompletionWithFormat(ctx,
			"study_questions", "Study questions about the material",
			questionPrompt(text, count), &out)
		if err == nil {
			return out, SourceProvider
		}
		logger.Warn("question generation failed", "provider", provider.Name(), "error", err)
	}
	return r.local.GenerateQuestions(text, count), SourceLocal
}

// Summarize asks a provider for a summary, falling back to the extractive
// one.
func (r *Router) Summarize(ctx context.Context, text string, maxLength int) TextResult {
	for _, i := range r.order() {
		provider := r.providers[i]
		summary, err := provider.GenerateCompletion(ctx, summaryPrompt(text, maxLength))
		if err == nil && summary != "" {
			return TextResult{Text: summary, Source: SourceProvider}
		}
		logger.Warn("summary generation failed", "provider", provider.Name(), "error", err)
	}
	return TextResult{Text: r.local.Summarize(text, maxLength), Source: SourceLocal}
}

// Chat answers the conversation against the document context. When every
// provider fails, the local answer is extracted from the context directly.
func (r *Router) Chat(ctx context.Context, messages []ChatMessage, contextText string) TextResult {
	question := lastUserMessage(messages)

	for _, i := range r.order() {
		provider := r.providers[i]
		history := messages
		if len(history) > 0 {
			history = history[:len(history)-1]
		}
		conversation := make([]ChatMessage, 0, len(messages))
		conversation = append(conversation, history...)
		conversation = append(conversation, ChatMessage{
			Role:    "user",
			Message: chatPrompt(contextText, question),
		})
		reply, err := provider.GenerateChat(ctx, conversation,
			WithSystemPrompts(chatSystemPrompt))
		if err == nil && reply != "" {
			return TextResult{Text: reply, Source: SourceProvider}
		}
		logger.Warn("chat failed", "provider", provider.Name(), "error", err)
	}

	answer, _ := r.local.Answer(question, contextText)
	return TextResult{Text: answer, Source: SourceLocal}
}

func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Message
		}
	}
	return ""
}
