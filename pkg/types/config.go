// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-mentor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for the search provider registry.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// LimitPerProvider is the maximum number of results requested from
	// each provider (default 10).
	LimitPerProvider int `json:"limit_per_provider" yaml:"limit_per_provider"`

	// FromYear filters results published before this year; 0 disables
	// the filter.
	FromYear int `json:"from_year" yaml:"from_year"`

	// RatePerSecond caps outbound requests per provider (default 1).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// UnpaywallEmail is required by the Unpaywall terms of service.
	UnpaywallEmail string `json:"unpaywall_email,omitempty" yaml:"unpaywall_email,omitempty"`

	// SemanticScholarAPIKey raises the Semantic Scholar rate limit;
	// empty uses the free tier.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// Disabled lists provider names to skip during registration.
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// LLMConfig holds settings for the chat-completion client.
type LLMConfig struct {
	// Provider selects the backend: "openai", "openrouter", or "ollama".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens bounds each completion (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling (default 0.7).
	Temperature float32 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for failed calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RatePerSecond caps completion requests (default 1).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`
}

// ResearchDepth controls thoroughness versus speed of a research run.
type ResearchDepth string

const (
	DepthShallow  ResearchDepth = "shallow"  // quick overview, no gap analysis
	DepthStandard ResearchDepth = "standard" // balanced
	DepthDeep     ResearchDepth = "deep"     // comprehensive, wider year range
)

// ResearchConfig holds settings for the deep-research workflow.
type ResearchConfig struct {
	// Depth selects the preset: shallow, standard, or deep.
	Depth ResearchDepth `json:"depth" yaml:"depth"`

	// MaxPapersPerProvider caps results per provider per sub-query.
	MaxPapersPerProvider int `json:"max_papers_per_provider" yaml:"max_papers_per_provider"`

	// FromYear filters out papers published before this year.
	FromYear int `json:"from_year" yaml:"from_year"`

	// IncludeGapAnalysis enables the gap-analysis stage.
	IncludeGapAnalysis bool `json:"include_gap_analysis" yaml:"include_gap_analysis"`

	// MaxConcurrentSummaries caps the summarization fan-out (default 4).
	MaxConcurrentSummaries int `json:"max_concurrent_summaries" yaml:"max_concurrent_summaries"`
}

// Normalize applies depth presets and defaults in place.
func (c *ResearchConfig) Normalize() {
	if c.Depth == "" {
		c.Depth = DepthStandard
	}
	if c.MaxPapersPerProvider <= 0 {
		c.MaxPapersPerProvider = 10
	}
	if c.FromYear == 0 {
		c.FromYear = 2020
	}
	if c.MaxConcurrentSummaries <= 0 {
		c.MaxConcurrentSummaries = 4
	}
	switch c.Depth {
	case DepthShallow:
		c.MaxPapersPerProvider = 5
		c.IncludeGapAnalysis = false
	case DepthDeep:
		c.IncludeGapAnalysis = true
		if c.FromYear > 2018 {
			c.FromYear = 2018
		}
	default:
		c.IncludeGapAnalysis = true
	}
}

// MaxSummaries returns how many papers the summarization stage keeps for
// the configured depth.
func (c ResearchConfig) MaxSummaries() int {
	switch c.Depth {
	case DepthShallow:
		return 5
	case DepthDeep:
		return 30
	default:
		return 15
	}
}

// ArchiveConfig holds settings for the report archive.
type ArchiveConfig struct {
	// Dir is the base directory holding the archive database.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum for archive queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ValidationConfig holds settings for the validated research pipeline.
type ValidationConfig struct {
	// EnableVerification toggles the citation-verification pass.
	EnableVerification bool `json:"enable_verification" yaml:"enable_verification"`

	// EnableRecommendations toggles similar-paper lookup.
	EnableRecommendations bool `json:"enable_recommendations" yaml:"enable_recommendations"`

	// EnablePDFResolution toggles open-access link resolution.
	EnablePDFResolution bool `json:"enable_pdf_resolution" yaml:"enable_pdf_resolution"`

	// MaxSimilarPapers caps the recommendation list (default 5).
	MaxSimilarPapers int `json:"max_similar_papers" yaml:"max_similar_papers"`
}

// Normalize applies defaults in place.
func (c *ValidationConfig) Normalize() {
	if c.MaxSimilarPapers <= 0 {
		c.MaxSimilarPapers = 5
	}
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Providers  ProviderConfig   `json:"providers" yaml:"providers"`
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Research   ResearchConfig   `json:"research" yaml:"research"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
}
