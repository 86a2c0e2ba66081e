// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// Known OpenAI-compatible endpoints selected by LLMConfig.Provider.
const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	ollamaBaseURL     = "http://localhost:11434/v1"
)

// backoffBase is the base delay between completion retries. Tests
// override this to avoid real sleeps.
var backoffBase = 2 * time.Second

// OpenAI is a Client backed by an OpenAI-compatible chat API.
type OpenAI struct {
	client  *openai.Client
	cfg     types.LLMConfig
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewOpenAI builds a client from config. Provider selects the endpoint:
// "openai" (default), "openrouter", or "ollama"; BaseURL overrides all
// of them.
func NewOpenAI(cfg types.LLMConfig, log zerolog.Logger) (*OpenAI, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is not configured")
	}

	baseURL := cfg.BaseURL
	apiKey := cfg.APIKey
	switch cfg.Provider {
	case "", "openai":
		// stock endpoint
	case "openrouter":
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
	case "ollama":
		if baseURL == "" {
			baseURL = ollamaBaseURL
		}
		// Ollama ignores the key but the SDK requires one.
		if apiKey == "" {
			apiKey = "ollama"
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llm api key is not configured")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     log,
	}, nil
}

// Model returns the configured model identifier.
func (c *OpenAI) Model() string { return c.cfg.Model }

// Chat sends the conversation and returns the model's reply. Failed calls
// are retried with exponential backoff up to the configured attempt count.
func (c *OpenAI) Chat(ctx context.Context, messages []Message, opts ChatOptions) (Response, error) {
	req := c.buildRequest(messages, opts)

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffBase * time.Duration(1<<(attempt-1))
			c.log.Warn().Int("attempt", attempt).Dur("backoff", backoff).Err(lastErr).
				Msg("retrying chat completion")
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, err
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("completion returned no choices")
			continue
		}
		return fromChoice(resp.Choices[0]), nil
	}
	return Response{}, fmt.Errorf("chat completion failed after %d attempts: %w", c.cfg.MaxRetries, lastErr)
}

func (c *OpenAI) buildRequest(messages []Message, opts ChatOptions) openai.ChatCompletionRequest {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    toChatMessages(messages),
	}

	for _, tool := range opts.Tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		cm := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func fromChoice(choice openai.ChatCompletionChoice) Response {
	resp := Response{Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp
}
