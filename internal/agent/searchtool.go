// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/research-mentor/internal/provider"
)

// SearchTool exposes the provider registry to the model as an academic
// paper search.
type SearchTool struct {
	Registry *provider.Registry
	Opts     provider.SearchOptions
}

// Name returns the tool identifier presented to the model.
func (t *SearchTool) Name() string { return "search_papers" }

// Description tells the model what the tool does.
func (t *SearchTool) Description() string {
	return "Search free academic paper databases (arXiv, OpenAlex, PubMed, and others) for papers matching a query. Returns titles, authors, years, and abstracts."
}

// Parameters returns the argument schema.
func (t *SearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Search terms describing the research topic"},
			"limit": {"type": "integer", "description": "Maximum papers per database (default 5)"}
		},
		"required": ["query"]
	}`)
}

// Execute runs the search and formats the merged results as plain text.
func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("parsing search arguments: %w", err)
	}
	if strings.TrimSpace(params.Query) == "" {
		return "", fmt.Errorf("search query is empty")
	}

	opts := t.Opts
	if params.Limit > 0 {
		opts.Limit = params.Limit
	} else if opts.Limit <= 0 {
		opts.Limit = 5
	}

	byProvider, err := t.Registry.SearchAll(ctx, params.Query, opts)
	if err != nil {
		return "", err
	}
	merged := provider.Merge(byProvider)
	if len(merged) == 0 {
		return "No papers found for that query.", nil
	}
	if len(merged) > 10 {
		merged = merged[:10]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d papers:\n\n", len(merged))
	for i, r := range merged {
		fmt.Fprintf(&b, "%d. %s", i+1, r.Title)
		if r.Year > 0 {
			fmt.Fprintf(&b, " (%d)", r.Year)
		}
		fmt.Fprintf(&b, " [%s]\n", r.Source)
		if len(r.Authors) > 0 {
			fmt.Fprintf(&b, "   Authors: %s\n", strings.Join(r.Authors, ", "))
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "   URL: %s\n", r.URL)
		}
		if r.Abstract != "" {
			abstract := r.Abstract
			if ar := []rune(abstract); len(ar) > 300 {
				abstract = string(ar[:300]) + "..."
			}
			fmt.Fprintf(&b, "   %s\n", abstract)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
