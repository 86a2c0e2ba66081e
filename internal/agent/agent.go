// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-mentor/internal/llm"
)

// maxToolIterations bounds the tool-calling loop. If the model keeps
// requesting tools past this many rounds the agent gives up with
// fallbackResponse instead of looping forever.
const maxToolIterations = 5

// maxHistoryMessages bounds the retained conversation, not counting the
// system prompt. Older turns are dropped from the front.
const maxHistoryMessages = 20

// fallbackResponse is returned when a turn cannot be completed.
const fallbackResponse = "I apologize, but I encountered an issue processing your request. Please try again."

// Agent holds a conversation with an LLM, letting it call registered
// tools between turns.
type Agent struct {
	client  llm.Client
	tools   *Registry
	system  string
	history []llm.Message
	log     zerolog.Logger
}

// New builds an agent. systemPrompt may be empty; tools may be an empty
// registry for a plain chat agent.
func New(client llm.Client, tools *Registry, systemPrompt string, log zerolog.Logger) *Agent {
	if tools == nil {
		tools = NewRegistry()
	}
	return &Agent{
		client: client,
		tools:  tools,
		system: systemPrompt,
		log:    log,
	}
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.history = nil
}

// Chat sends a user message, resolves any tool calls the model makes,
// and returns the model's final text reply. A turn never fails upward:
// on client errors or a runaway tool loop the agent logs the cause and
// returns a fixed fallback message. Only context cancellation is
// surfaced as an error.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	a.push(llm.Message{Role: llm.RoleUser, Content: userMessage})

	for i := 0; i < maxToolIterations; i++ {
		resp, err := a.client.Chat(ctx, a.messages(), llm.ChatOptions{Tools: a.tools.Definitions()})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			a.log.Error().Err(err).Msg("chat completion failed")
			return fallbackResponse, nil
		}

		if len(resp.ToolCalls) == 0 {
			a.push(llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			return resp.Content, nil
		}

		a.push(llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			a.log.Debug().Str("tool", call.Name).Msg("executing tool call")
			result := a.tools.Execute(ctx, call.Name, json.RawMessage(call.Arguments))
			a.push(llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	a.log.Warn().Int("iterations", maxToolIterations).Msg("tool loop exhausted")
	return fallbackResponse, nil
}

// push appends a message and trims the history to its bound. Trimming
// also drops tool messages orphaned by the cut, since the chat API
// rejects tool results without their matching call.
func (a *Agent) push(m llm.Message) {
	a.history = append(a.history, m)
	if len(a.history) <= maxHistoryMessages {
		return
	}
	cut := len(a.history) - maxHistoryMessages
	for cut < len(a.history) && a.history[cut].Role == llm.RoleTool {
		cut++
	}
	a.history = a.history[cut:]
}

// messages returns the system prompt followed by the retained history.
func (a *Agent) messages() []llm.Message {
	msgs := make([]llm.Message, 0, len(a.history)+1)
	if a.system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: a.system})
	}
	return append(msgs, a.history...)
}
