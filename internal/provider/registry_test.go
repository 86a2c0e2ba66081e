// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// --- stub provider ---

type stubProvider struct {
	name      string
	available bool
	results   []types.SearchResult
	err       error
	calls     int
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return s.available }

func (s *stubProvider) Search(_ context.Context, _ string, _ SearchOptions) ([]types.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

func newTestRegistry(providers ...Provider) *Registry {
	r := NewRegistry(1000, zerolog.Nop())
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

func TestRegistryRegisterAndGet(t *testing.T) {
	a := &stubProvider{name: "arxiv", available: true}
	b := &stubProvider{name: "zenodo", available: true}
	r := newTestRegistry(a, b)

	if got := r.Get("arxiv"); got != a {
		t.Errorf("Get(arxiv) = %v, want registered instance", got)
	}
	if got := r.Get("nope"); got != nil {
		t.Errorf("Get(nope) = %v, want nil", got)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "arxiv" || names[1] != "zenodo" {
		t.Errorf("Names() = %v, want registration order [arxiv zenodo]", names)
	}
}

func TestRegistryRegisterReplacesByName(t *testing.T) {
	old := &stubProvider{name: "arxiv", available: true}
	repl := &stubProvider{name: "arxiv", available: true}
	r := newTestRegistry(old, repl)

	if got := r.Get("arxiv"); got != repl {
		t.Errorf("Get(arxiv) = %v, want replacement instance", got)
	}
	if len(r.Names()) != 1 {
		t.Errorf("Names() = %v, want single entry", r.Names())
	}
}

func TestSearchAllEmptyQuery(t *testing.T) {
	r := newTestRegistry(&stubProvider{name: "arxiv", available: true})
	if _, err := r.SearchAll(context.Background(), "   ", SearchOptions{}); err == nil {
		t.Error("SearchAll with blank query should fail")
	}
}

func TestSearchAllSkipsUnavailable(t *testing.T) {
	up := &stubProvider{name: "up", available: true, results: []types.SearchResult{{Title: "A"}}}
	down := &stubProvider{name: "down", available: false}
	r := newTestRegistry(up, down)

	out, err := r.SearchAll(context.Background(), "transformers", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if down.calls != 0 {
		t.Error("unavailable provider should not be queried")
	}
	if _, present := out["down"]; present {
		t.Error("unavailable provider should not appear in output")
	}
	if len(out["up"]) != 1 {
		t.Errorf("len(out[up]) = %d, want 1", len(out["up"]))
	}
}

func TestSearchAllContinuesPastFailure(t *testing.T) {
	failing := &stubProvider{name: "failing", available: true, err: fmt.Errorf("boom")}
	working := &stubProvider{name: "working", available: true, results: []types.SearchResult{{Title: "B"}}}
	r := newTestRegistry(failing, working)

	out, err := r.SearchAll(context.Background(), "attention", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if results, present := out["failing"]; !present || len(results) != 0 {
		t.Errorf("failed provider should yield an empty entry, got %v", out["failing"])
	}
	if len(out["working"]) != 1 {
		t.Error("later providers should still run after a failure")
	}
	if working.calls != 1 {
		t.Errorf("working.calls = %d, want 1", working.calls)
	}
}

func TestSearchAllCancelledContext(t *testing.T) {
	p := &stubProvider{name: "arxiv", available: true}
	r := newTestRegistry(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.SearchAll(ctx, "q", SearchOptions{}); err == nil {
		t.Error("SearchAll with cancelled context should fail")
	}
	if p.calls != 0 {
		t.Error("provider should not run after cancellation")
	}
}

func TestMergeSortsByRelevance(t *testing.T) {
	byProvider := map[string][]types.SearchResult{
		"arxiv": {
			{Title: "mid", RelevanceScore: 0.5},
			{Title: "high", RelevanceScore: 0.9},
		},
		"zenodo": {
			{Title: "low", RelevanceScore: 0.1},
		},
	}

	merged := Merge(byProvider)
	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}
	for i, want := range []string{"high", "mid", "low"} {
		if merged[i].Title != want {
			t.Errorf("merged[%d].Title = %q, want %q", i, merged[i].Title, want)
		}
	}
}

func TestRankScore(t *testing.T) {
	tests := []struct {
		name  string
		i     int
		total int
		want  float64
	}{
		{"single result", 0, 1, 1.0},
		{"first of many", 0, 10, 1.0},
		{"last of many", 9, 10, 0.1},
		{"second of three", 1, 3, 0.55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankScore(tt.i, tt.total); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("rankScore(%d, %d) = %f, want %f", tt.i, tt.total, got, tt.want)
			}
		})
	}
}
