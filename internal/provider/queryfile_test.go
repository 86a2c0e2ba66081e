// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/research-mentor/pkg/types"
)

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	merged := []types.SearchResult{
		{Title: "Paper A", Source: "arxiv", RelevanceScore: 0.4},
		{Title: "Paper B", Source: "openalex", RelevanceScore: 0.9},
	}
	byProvider := map[string][]types.SearchResult{
		"arxiv":    {merged[0]},
		"openalex": {merged[1]},
	}
	opts := SearchOptions{Limit: 10, FromYear: 2020}

	if err := WriteQueryFile(path, "sparse attention", opts, byProvider, merged); err != nil {
		t.Fatalf("WriteQueryFile: %v", err)
	}

	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile: %v", err)
	}
	if qf.Query.FreeText != "sparse attention" || qf.Query.FromYear != 2020 {
		t.Errorf("query = %+v", qf.Query)
	}
	if qf.Summary.Total != 2 || qf.Summary.PerProvider["openalex"] != 1 {
		t.Errorf("summary = %+v", qf.Summary)
	}
	// Results come back sorted by relevance.
	if qf.Results[0].Title != "Paper B" {
		t.Errorf("Results[0] = %q", qf.Results[0].Title)
	}
	if qf.Summary.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
