// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"testing"

	"github.com/pdiddy/research-mentor/pkg/types"
)

func TestDeduplicateByDOI(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Paper A", DOI: "10.1/a", Source: "openalex", RelevanceScore: 0.9, Citations: 10},
		{Title: "Paper A (dup)", DOI: "10.1/A", Source: "zenodo", RelevanceScore: 0.8, Citations: 50},
		{Title: "Paper B", DOI: "10.1/b", Source: "openalex", RelevanceScore: 0.7},
	}

	out, removed := Deduplicate(results)
	if removed != 1 {
		t.Errorf("removed = %d, want 1 (DOI match is case-insensitive)", removed)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Citations != 50 {
		t.Errorf("Citations = %d, want the higher count merged in", out[0].Citations)
	}
	if out[0].RelevanceScore != 0.9 {
		t.Errorf("RelevanceScore = %f, want the higher score kept", out[0].RelevanceScore)
	}
	if out[0].Source != "openalex+zenodo" {
		t.Errorf("Source = %q, want both providers recorded", out[0].Source)
	}
}

func TestDeduplicateByArxivIDAndURL(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Paper", ArxivID: "2301.00001", Source: "arxiv"},
		{Title: "Paper", ArxivID: "2301.00001", Source: "openalex"},
		{Title: "Other", URL: "https://x.org/1", Source: "hal"},
		{Title: "Other copy", URL: "https://x.org/1", Source: "zenodo"},
	}

	out, removed := Deduplicate(results)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want exactly one representative per identifier", len(out))
	}
}

func TestDeduplicateByNormalizedTitle(t *testing.T) {
	results := []types.SearchResult{
		{Title: "BERT: Pre-training of Deep Bidirectional Transformers", Source: "arxiv"},
		{Title: "BERT  pre training of deep bidirectional transformers!", Source: "openalex"},
	}

	out, removed := Deduplicate(results)
	if removed != 1 || len(out) != 1 {
		t.Errorf("out = %d results, removed = %d; want title normalization to collapse them", len(out), removed)
	}
}

func TestDeduplicateChainsIdentifiers(t *testing.T) {
	// The first result links DOI and URL; a later URL-only duplicate must
	// still collapse into it.
	results := []types.SearchResult{
		{Title: "Paper", DOI: "10.1/a", URL: "https://x.org/a", Source: "openalex"},
		{Title: "Same paper", URL: "https://x.org/a", Source: "hal", Abstract: "filled in"},
	}

	out, removed := Deduplicate(results)
	if removed != 1 || len(out) != 1 {
		t.Fatalf("out = %d, removed = %d; want URL alias registered", len(out), removed)
	}
	if out[0].Abstract != "filled in" {
		t.Errorf("Abstract = %q, want missing field merged from duplicate", out[0].Abstract)
	}
}

func TestDeduplicateDistinctSurvive(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Alpha", DOI: "10.1/alpha"},
		{Title: "Beta", ArxivID: "2301.1"},
		{Title: "Gamma", URL: "https://x.org/g"},
	}

	out, removed := Deduplicate(results)
	if removed != 0 || len(out) != 3 {
		t.Errorf("out = %d, removed = %d; distinct results must all survive", len(out), removed)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BERT: Pre-training!", "bert pre training"},
		{"  Spaced   Out  ", "spaced out"},
		{"", ""},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
