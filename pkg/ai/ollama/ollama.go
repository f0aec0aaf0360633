// Package ollama implements the ai.Provider interface against a locally
// hosted Ollama server. It is the last provider in the chain and usually
// runs without authentication.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/inkwell-ai/studygraph/backend/pkg/ai"

	"github.com/ollama/ollama/api"
)

// Client drives one Ollama server with one default model.
type Client struct {
	defaultModel string
	client       *api.Client
}

// NewClientParams configures a Client. An empty BaseURL leaves the client
// unconfigured.
type NewClientParams struct {
	BaseURL string
	Model   string
}

// NewClient creates a Client for the Ollama server at BaseURL.
func NewClient(params NewClientParams) (*Client, error) {
	if params.BaseURL == "" {
		return &Client{defaultModel: params.Model}, nil
	}

	u, err := url.Parse(params.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}

	return &Client{
		defaultModel: params.Model,
		client:       api.NewClient(u, http.DefaultClient),
	}, nil
}

func (c *Client) Name() string {
	return "ollama"
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

func (c *Client) chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	var content string
	err := c.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		content += cr.Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("provider ollama is not configured")
	}

	options := c.options(opts, 0.3)
	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	return c.chat(ctx, req)
}

func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if c.client == nil {
		return fmt.Errorf("provider ollama is not configured")
	}

	formatBytes, err := json.Marshal(ai.GenerateSchema(out))
	if err != nil {
		return err
	}

	options := c.options(opts, 0.1)
	stream := false
	req := &api.ChatRequest{
		Model: options.Model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream:  &stream,
		Format:  json.RawMessage(formatBytes),
		Options: map[string]any{"temperature": options.Temperature},
	}

	content, err := c.chat(ctx, req)
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("empty response from ollama")
	}
	return ai.UnmarshalFlexible(content, out)
}

func (c *Client) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("provider ollama is not configured")
	}

	options := c.options(opts, 0.7)
	msgs := make([]api.Message, 0, len(options.SystemPrompts)+len(messages))
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		msgs = append(msgs, api.Message{Role: role, Content: m.Message})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	return c.chat(ctx, req)
}
