// Package ai routes generation tasks to configured model providers and falls
// back to local heuristics when no provider can answer.
package ai

import "context"

// Task names for generation requests. The router picks prompts and response
// schemas per task.
const (
	TaskExtractConcepts   = "extract_concepts"
	TaskExtractRelations  = "extract_relations"
	TaskGenerateQuestions = "generate_questions"
	TaskGenerateSummary   = "generate_summary"
	TaskChat              = "chat"
)

// ChatMessage represents a single message in a chat conversation.
//
// Role must be one of:
//   - "user"      → a user-provided message
//   - "assistant" → a message from the AI assistant
type ChatMessage struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// GenerateOptions holds configuration for generation requests.
type GenerateOptions struct {
	Model         string
	SystemPrompts []string
	Temperature   float64
}

// GenerateOption is a functional option for configuring generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// prepended to the request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling
// temperature. Lower values make outputs more deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// Provider is a configured model backend the router can dispatch to.
// Implementations must be safe for concurrent use.
type Provider interface {
	Name() string

	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	GenerateChat(
		ctx context.Context,
		messages []ChatMessage,
		opts ...GenerateOption,
	) (string, error)
}

// Source tags where a result came from.
const (
	SourceProvider = "ai"
	SourceLocal    = "local"
)

// ConceptExtraction is the structured output of the concept task.
type ConceptExtraction struct {
	Concepts []ExtractedConcept `json:"concepts"`
}

// ExtractedConcept is a single concept proposed by a model or heuristic.
type ExtractedConcept struct {
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Importance  float64 `json:"importance"`
}

// RelationExtraction is the structured output of the relation task.
type RelationExtraction struct {
	Relations []ExtractedRelation `json:"relations"`
}

// ExtractedRelation is a single relation proposed by a model or heuristic.
type ExtractedRelation struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// QuestionSet is the structured output of the question task.
type QuestionSet struct {
	Questions []string `json:"questions"`
}

// TextResult is a plain-text task result together with its origin.
type TextResult struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}
