// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"fmt"
	"os"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// A search can be saved to a file and reloaded later without re-querying
// the providers.
type QueryFile struct {
	Query   QueryParams          `yaml:"query"`
	Results []types.SearchResult `yaml:"results"`
	Summary QuerySummary         `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	FreeText string `yaml:"free_text"`
	Limit    int    `yaml:"limit,omitempty"`
	FromYear int    `yaml:"from_year,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total       int            `yaml:"total"`
	PerProvider map[string]int `yaml:"per_provider,omitempty"`
	Timestamp   time.Time      `yaml:"timestamp"`
}

// WriteQueryFile saves a query and its merged results to a YAML file.
func WriteQueryFile(path, query string, opts SearchOptions, byProvider map[string][]types.SearchResult, merged []types.SearchResult) error {
	qf := QueryFile{
		Query: QueryParams{
			FreeText: query,
			Limit:    opts.Limit,
			FromYear: opts.FromYear,
		},
		Results: merged,
		Summary: QuerySummary{
			Total:     len(merged),
			Timestamp: time.Now().UTC(),
		},
	}
	if len(byProvider) > 0 {
		qf.Summary.PerProvider = make(map[string]int, len(byProvider))
		for name, results := range byProvider {
			qf.Summary.PerProvider[name] = len(results)
		}
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing query file: %w", err)
	}
	return nil
}

// ReadQueryFile loads a previously saved search from a YAML file.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	sort.SliceStable(qf.Results, func(i, j int) bool {
		return qf.Results[i].RelevanceScore > qf.Results[j].RelevanceScore
	})
	return &qf, nil
}
