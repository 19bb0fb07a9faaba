package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     "",
		ChatModel:  "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// Message is a chat message sent to or received from the model.
type Message struct {
	Role    string
	Content string
	// ToolCallID links a tool-role message back to the call it answers.
	ToolCallID string
	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// ToolDefinition describes a callable tool advertised to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema for the input
}

// ChatResult is the model's reply for one iteration: either final content or
// a batch of tool calls to execute.
type ChatResult struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider wraps an OpenAI-compatible chat backend.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Apply defaults for unset values
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Chat performs a plain chat completion.
func (p *Provider) Chat(ctx context.Context, messages []Message) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model:    p.config.ChatModel,
			Messages: toOpenAIMessages(messages),
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}

	return result, nil
}

// ChatWithTools performs a chat completion with the given tools advertised.
// The model either answers directly or requests one or more tool calls.
func (p *Provider) ChatWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (*ChatResult, error) {
	openaiTools := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		openaiTools = append(openaiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	var result *ChatResult
	err := p.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model:    p.config.ChatModel,
			Messages: toOpenAIMessages(messages),
			Tools:    openaiTools,
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}

		choice := resp.Choices[0].Message
		out := &ChatResult{Content: choice.Content}
		for _, call := range choice.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
		result = out
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to complete chat with tools: %w", err)
	}

	return result, nil
}

// Validate checks that the provider is usable before serving traffic.
func (p *Provider) Validate(ctx context.Context) error {
	if p.config.APIKey == "" {
		return fmt.Errorf("API key is required, set DAYKEEP_AI_API_KEY environment variable")
	}

	slog.Info("AI provider configured",
		"base_url", p.config.BaseURL,
		"chat_model", p.config.ChatModel)

	return nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		converted := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			converted.ToolCalls = append(converted.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, converted)
	}
	return out
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("AI request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

// NewProviderFromEnv creates a provider from environment variables.
func NewProviderFromEnv() (*Provider, error) {
	return NewProvider(&Config{
		BaseURL:    getEnv("DAYKEEP_AI_BASE_URL", "https://api.openai.com/v1"),
		APIKey:     getEnv("DAYKEEP_AI_API_KEY", ""),
		ChatModel:  getEnv("DAYKEEP_AI_CHAT_MODEL", "gpt-4o-mini"),
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	})
}

// getEnv gets an environment variable with a fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
