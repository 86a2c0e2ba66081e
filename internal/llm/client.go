// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps chat-completion backends behind a small client
// interface used by the research and agent stages. The concrete
// implementation speaks the OpenAI chat API, which also covers
// OpenRouter and Ollama through their compatible endpoints.
package llm

import (
	"context"
	"encoding/json"
)

// Message roles, matching the chat API wire values.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn in a chat conversation.
type Message struct {
	Role    string
	Content string

	// ToolCallID links a RoleTool message to the call it answers.
	ToolCallID string

	// ToolCalls holds the calls an assistant message requested.
	ToolCalls []ToolCall
}

// ToolCall is a model request to invoke a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON arguments as produced by the model
}

// ToolDef describes a tool offered to the model.
type ToolDef struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema for the arguments object
}

// ChatOptions adjusts a single completion request. Zero values fall back
// to the client's configured defaults.
type ChatOptions struct {
	Tools       []ToolDef
	JSONMode    bool // ask the model for a JSON object response
	MaxTokens   int
	Temperature float32
}

// Response is the model's reply: content, tool calls, or both.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Client produces chat completions.
type Client interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (Response, error)

	// Model returns the configured model identifier, for report metadata.
	Model() string
}
