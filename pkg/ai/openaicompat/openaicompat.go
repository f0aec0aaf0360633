// Package openaicompat implements the ai.Provider interface on top of any
// endpoint speaking the OpenAI chat-completion protocol. DeepSeek and the
// Gemini compatibility endpoint are both driven through this client.
package openaicompat

import (
	"context"
	"fmt"

	"github.com/inkwell-ai/studygraph/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client talks to one OpenAI-compatible endpoint with one default model.
// Create it with NewClient; a Client with an empty API key is unconfigured
// and fails every request.
type Client struct {
	name         string
	defaultModel string
	chat         *openai.Client
}

// NewClientParams configures a Client.
//
// Name identifies the provider in logs ("deepseek", "gemini", ...).
// BaseURL and APIKey configure the endpoint; Model is the default model.
type NewClientParams struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

// NewClient creates a Client for one compatible endpoint.
//
// Example:
//
//	client := openaicompat.NewClient(openaicompat.NewClientParams{
//		Name:    "deepseek",
//		BaseURL: "https://api.deepseek.com/v1",
//		APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
//		Model:   "deepseek-chat",
//	})
func NewClient(params NewClientParams) *Client {
	var chat *openai.Client
	if params.APIKey != "" {
		options := []option.RequestOption{
			option.WithAPIKey(params.APIKey),
		}
		if params.BaseURL != "" {
			options = append(options, option.WithBaseURL(params.BaseURL))
		}
		c := openai.NewClient(options...)
		chat = &c
	}

	return &Client{
		name:         params.Name,
		defaultModel: params.Model,
		chat:         chat,
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) options(opts []ai.GenerateOption, temperature float64) ai.GenerateOptions {
	options := ai.GenerateOptions{
		Model:       c.defaultModel,
		Temperature: temperature,
	}
	for _, o := range opts {
		o(&options)
	}
	return options
}

func (c *Client) messages(options ai.GenerateOptions, prompt string) []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	return append(msgs, openai.UserMessage(prompt))
}

// GenerateCompletion sends a single-turn prompt and returns the completion
// as plain text.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.chat == nil {
		return "", fmt.Errorf("provider %s is not configured", c.name)
	}

	options := c.options(opts, 0.3)
	response, err := c.chat.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    c.messages(options, prompt),
		Temperature: openai.Float(options.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from %s", c.name)
	}
	return response.Choices[0].Message.Content, nil
}

// GenerateCompletionWithFormat sends a prompt and unmarshals the response
// into out, using a JSON schema derived from out to enforce structure.
func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if c.chat == nil {
		return fmt.Errorf("provider %s is not configured", c.name)
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      ai.GenerateSchema(out),
		Strict:      openai.Bool(true),
	}

	options := c.options(opts, 0.1)
	response, err := c.chat.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages:    c.messages(options, prompt),
		Temperature: openai.Float(options.Temperature),
	})
	if err != nil {
		return err
	}
	if len(response.Choices) == 0 {
		return fmt.Errorf("no choices in response from %s", c.name)
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return fmt.Errorf("empty response from %s (finish_reason: %s)",
			c.name, response.Choices[0].FinishReason)
	}
	return ai.UnmarshalFlexible(message, out)
}

// GenerateChat sends a multi-turn conversation and returns the assistant's
// reply as plain text.
func (c *Client) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.chat == nil {
		return "", fmt.Errorf("provider %s is not configured", c.name)
	}

	options := c.options(opts, 0.7)
	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Message))
		default:
			msgs = append(msgs, openai.UserMessage(m.Message))
		}
	}

	response, err := c.chat.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from %s", c.name)
	}
	return response.Choices[0].Message.Content, nil
}
