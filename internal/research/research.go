// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs the deep-research workflow: plan sub-queries,
// search every provider, deduplicate, summarize each paper, analyze
// gaps, and synthesize a markdown report.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-mentor/internal/llm"
	"github.com/pdiddy/research-mentor/internal/provider"
	"github.com/pdiddy/research-mentor/pkg/types"
)

// Agent orchestrates one deep-research run. Dependencies are injected;
// the agent holds no hidden clients.
type Agent struct {
	client   llm.Client
	registry *provider.Registry
	cfg      types.ResearchConfig
	log      zerolog.Logger
}

// NewAgent builds a research agent. The config is normalized in place,
// applying depth presets and defaults.
func NewAgent(client llm.Client, registry *provider.Registry, cfg types.ResearchConfig, log zerolog.Logger) *Agent {
	cfg.Normalize()
	return &Agent{
		client:   client,
		registry: registry,
		cfg:      cfg,
		log:      log,
	}
}

// Research runs the full pipeline for a topic. Individual stage failures
// degrade the report instead of failing the run: a dead provider is
// skipped, a failed summary falls back to the abstract, a failed
// synthesis produces a minimal summary. Only context cancellation and an
// empty topic are returned as errors.
func (a *Agent) Research(ctx context.Context, topic string) (*types.ResearchReport, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("research topic is empty")
	}

	report := &types.ResearchReport{
		Topic:    topic,
		Metadata: map[string]string{"depth": string(a.cfg.Depth)},
	}

	queries := a.planQueries(ctx, topic)
	a.log.Info().Str("topic", topic).Strs("queries", queries).Msg("planned sub-queries")

	var all []types.SearchResult
	for _, q := range queries {
		byProvider, err := a.registry.SearchAll(ctx, q, provider.SearchOptions{
			Limit:    a.cfg.MaxPapersPerProvider,
			FromYear: a.cfg.FromYear,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, provider.Merge(byProvider)...)
	}

	deduped, removed := Deduplicate(all)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].RelevanceScore > deduped[j].RelevanceScore
	})
	if max := a.cfg.MaxSummaries(); len(deduped) > max {
		deduped = deduped[:max]
	}
	report.Metadata["papers_found"] = fmt.Sprintf("%d", len(all))
	report.Metadata["duplicates_removed"] = fmt.Sprintf("%d", removed)
	report.Metadata["papers_summarized"] = fmt.Sprintf("%d", len(deduped))
	report.Metadata["model"] = a.client.Model()

	report.Sources = a.summarizeSources(ctx, deduped)

	if a.cfg.IncludeGapAnalysis {
		report.GapAnalysis = a.analyzeGaps(ctx, topic, report.Sources)
	}

	a.synthesize(ctx, topic, report)
	report.Markdown = RenderMarkdown(report)
	return report, nil
}

// planQueries asks the model for 3-5 focused sub-queries. Any failure
// falls back to searching the topic itself.
func (a *Agent) planQueries(ctx context.Context, topic string) []string {
	prompt := fmt.Sprintf(`Break the research topic below into 3-5 focused academic search queries.
Respond with only a JSON array of strings.

Topic: %s`, topic)

	resp, err := a.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a research librarian crafting precise literature search queries."},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ChatOptions{})
	if err != nil {
		a.log.Warn().Err(err).Msg("query planning failed, searching the topic directly")
		return []string{topic}
	}

	raw, ok := llm.ExtractJSONArray(resp.Content)
	if !ok {
		return []string{topic}
	}
	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil || len(queries) == 0 {
		return []string{topic}
	}
	if len(queries) > 5 {
		queries = queries[:5]
	}
	return queries
}

// summarizeSources summarizes each paper with a bounded concurrent
// fan-out. Order is preserved. A failed summary degrades to a prefix of
// the abstract.
func (a *Agent) summarizeSources(ctx context.Context, results []types.SearchResult) []types.SourceSummary {
	summaries := make([]types.SourceSummary, len(results))
	sem := make(chan struct{}, a.cfg.MaxConcurrentSummaries)
	var wg sync.WaitGroup

	for i, r := range results {
		wg.Add(1)
		go func(i int, r types.SearchResult) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			summaries[i] = a.summarizeOne(ctx, r)
		}(i, r)
	}
	wg.Wait()
	return summaries
}

func (a *Agent) summarizeOne(ctx context.Context, r types.SearchResult) types.SourceSummary {
	s := types.SourceSummary{
		Title:          r.Title,
		URL:            r.URL,
		Source:         r.Source,
		RelevanceScore: r.RelevanceScore,
		Year:           r.Year,
		Citations:      r.Citations,
		Authors:        r.Authors,
		Venue:          r.Venue,
		DOI:            r.DOI,
		ArxivID:        r.ArxivID,
		PMCID:          r.PMCID,
	}

	prompt := fmt.Sprintf(`Summarize this paper in 2-3 sentences and list its key findings.
Respond with only a JSON object: {"summary": "...", "key_findings": ["..."]}

Title: %s
Abstract: %s`, r.Title, r.Abstract)

	resp, err := a.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ChatOptions{JSONMode: true})
	if err != nil {
		a.log.Warn().Str("title", r.Title).Err(err).Msg("summarization failed, using abstract")
		s.Summary = abstractFallback(r.Abstract)
		return s
	}

	var parsed struct {
		Summary     string   `json:"summary"`
		KeyFindings []string `json:"key_findings"`
	}
	raw, ok := llm.ExtractJSONObject(resp.Content)
	if !ok || json.Unmarshal([]byte(raw), &parsed) != nil || parsed.Summary == "" {
		s.Summary = abstractFallback(r.Abstract)
		return s
	}
	s.Summary = parsed.Summary
	s.KeyFindings = parsed.KeyFindings
	return s
}

// analyzeGaps asks the model for under-explored areas. Failure yields an
// empty section rather than failing the run.
func (a *Agent) analyzeGaps(ctx context.Context, topic string, sources []types.SourceSummary) string {
	if len(sources) == 0 {
		return ""
	}

	var b strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&b, "- %s: %s\n", s.Title, s.Summary)
	}
	prompt := fmt.Sprintf(`Given these summarized papers on %q, identify research gaps: questions the literature leaves open, under-explored settings, and missing comparisons. Two short paragraphs.

%s`, topic, b.String())

	resp, err := a.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ChatOptions{})
	if err != nil {
		a.log.Warn().Err(err).Msg("gap analysis failed")
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

// synthesize produces the executive summary, themes, and future
// directions. On failure the report degrades to a counting summary and
// the degradation is recorded in metadata.
func (a *Agent) synthesize(ctx context.Context, topic string, report *types.ResearchReport) {
	degraded := func() {
		report.Summary = fmt.Sprintf("This report surveys %d papers on %q. Synthesis was unavailable; see the per-source summaries below.",
			len(report.Sources), topic)
		report.Metadata["synthesis"] = "degraded"
	}

	if len(report.Sources) == 0 {
		report.Summary = fmt.Sprintf("No papers were found for %q with the current search settings.", topic)
		return
	}

	var b strings.Builder
	for _, s := range report.Sources {
		fmt.Fprintf(&b, "- %s (%s): %s\n", s.Title, s.Source, s.Summary)
	}
	prompt := fmt.Sprintf(`Synthesize the findings below into a research overview of %q.
Respond with only a JSON object:
{"summary": "executive summary, 2-3 paragraphs", "key_themes": ["..."], "future_directions": ["..."]}

%s`, topic, b.String())

	resp, err := a.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ChatOptions{JSONMode: true, MaxTokens: 2048})
	if err != nil {
		a.log.Warn().Err(err).Msg("synthesis failed")
		degraded()
		return
	}

	var parsed struct {
		Summary          string   `json:"summary"`
		KeyThemes        []string `json:"key_themes"`
		FutureDirections []string `json:"future_directions"`
	}
	raw, ok := llm.ExtractJSONObject(resp.Content)
	if !ok || json.Unmarshal([]byte(raw), &parsed) != nil || parsed.Summary == "" {
		degraded()
		return
	}
	report.Summary = parsed.Summary
	report.KeyThemes = parsed.KeyThemes
	report.FutureDirections = parsed.FutureDirections
}

// abstractFallback returns a prefix of the abstract for sources the
// model could not summarize.
func abstractFallback(abstract string) string {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" {
		return "No abstract available."
	}
	if r := []rune(abstract); len(r) > 300 {
		return string(r[:300]) + "..."
	}
	return abstract
}
