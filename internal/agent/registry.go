// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent implements a tool-calling chat agent: a registry of
// executable tools plus a bounded conversation loop around an LLM client.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/research-mentor/internal/llm"
)

// Tool is an executable capability offered to the model.
type Tool interface {
	Name() string
	Description() string

	// Parameters returns the JSON schema for the tool's arguments object.
	Parameters() json.RawMessage

	// Execute runs the tool with raw JSON arguments and returns a plain
	// text result for the model to read.
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry holds tools by name. Tools are registered explicitly at
// startup.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry returns an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool, replacing any tool already registered under the
// same name.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions lists the registered tools in registration order, in the
// shape the LLM client expects.
func (r *Registry) Definitions() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute runs the named tool. An unknown name or a tool failure comes
// back as an error result string, never a panic, so the model can read
// what went wrong and adjust.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) string {
	t, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("error: unknown tool %q", name)
	}
	result, err := t.Execute(ctx, args)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return result
}
