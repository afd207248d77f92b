// Package openai implements llm.ChatCompleter using the OpenAI-compatible
// chat-completions protocol (works against litellm, Ollama, Azure, vLLM,
// and the two provider variants spec.md §4.4 requires).
package openai

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/taskforge/orchestrator/internal/llm"
	"github.com/taskforge/orchestrator/internal/orcherr"
	openailib "github.com/sashabaranov/go-openai"
)

// Client implements llm.ChatCompleter over an OpenAI-compatible endpoint.
type Client struct {
	client *openailib.Client
	config *Config
}

// NewClient creates a client for the given config. The variant (system
// message handling) is fixed by config.SystemMode and never re-inspected
// downstream.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	clientConfig := openailib.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	// Prevent indefinite hangs when the endpoint is unresponsive.
	clientConfig.HTTPClient = &http.Client{Timeout: time.Duration(config.httpTimeoutSeconds()) * time.Second}

	return &Client{
		client: openailib.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// NewAnthropicLike returns a Client in "separate" system mode — the
// "anthropic-like" variant named by DEFAULT_LLM_PROVIDER in spec.md §6.
// System messages are sent unchanged as role "system" messages in their
// original positions; they are not extracted from the message slice.
func NewAnthropicLike(apiKey, baseURL, model string) (*Client, error) {
	return NewClient(&Config{APIKey: apiKey, BaseURL: baseURL, Model: model, SystemMode: "separate"})
}

// NewOpenAICompatible returns a Client that inlines system messages as
// ordinary messages — the "openai-compatible" variant named by
// DEFAULT_LLM_PROVIDER in spec.md §6.
func NewOpenAICompatible(apiKey, baseURL, model string) (*Client, error) {
	return NewClient(&Config{APIKey: apiKey, BaseURL: baseURL, Model: model, SystemMode: "inline"})
}

// Complete implements llm.ChatCompleter.
func (c *Client) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Response, error) {
	if len(messages) == 0 {
		return llm.Response{}, fmt.Errorf("%w: no messages to send", orcherr.ErrProvider)
	}

	model := c.config.Model
	if opts.Model != "" {
		model = opts.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = llm.DefaultOptions().MaxTokens
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = llm.DefaultOptions().Temperature
	}

	req := openailib.ChatCompletionRequest{
		Model:       model,
		Messages:    c.toOpenAIMessages(messages),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := c.createWithRetry(ctx, req)
	if err != nil {
		return llm.Response{}, err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return llm.Response{}, fmt.Errorf("%w: no content returned from LLM", orcherr.ErrProvider)
	}

	return llm.Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// toOpenAIMessages applies the provider variant: "separate" keeps every
// message as-is, system messages included, in the caller's order (no
// extraction or merging); "inline" re-tags system messages as user
// messages prefixed with a marker so providers without native system
// support still see the instruction.
func (c *Client) toOpenAIMessages(messages []llm.Message) []openailib.ChatCompletionMessage {
	out := make([]openailib.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		content := m.Content
		if c.config.SystemMode == "inline" && role == llm.RoleSystem {
			role = llm.RoleUser
			content = "[system] " + content
		}
		out = append(out, openailib.ChatCompletionMessage{Role: role, Content: content})
	}
	return out
}

// createWithRetry executes req with linear backoff, matching the teacher's
// retry loop (internal/llm/openai/client.go in the example pack).
func (c *Client) createWithRetry(ctx context.Context, req openailib.ChatCompletionRequest) (openailib.ChatCompletionResponse, error) {
	var resp openailib.ChatCompletionResponse
	var lastErr error

	retries := c.config.maxRetries()
	for attempt := 0; attempt <= retries; attempt++ {
		resp, lastErr = c.client.CreateChatCompletion(ctx, req)
		if lastErr == nil {
			return resp, nil
		}
		if attempt < retries {
			wait := time.Duration(attempt+1) * time.Second
			log.Printf("[LLM] retry %d/%d after %v, error: %v", attempt+1, retries, wait, lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return resp, ctx.Err()
			}
		}
	}
	return resp, fmt.Errorf("%w: call failed after %d retries: %v", orcherr.ErrProvider, retries, lastErr)
}

// Name implements llm.ChatCompleter.
func (c *Client) Name() string {
	return fmt.Sprintf("openai-compatible (%s)", c.config.Model)
}
