// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-mentor/internal/llm"
	"github.com/pdiddy/research-mentor/internal/provider"
	"github.com/pdiddy/research-mentor/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "research-mentor/0.1"
)

// providerConfig assembles provider settings from flags, config file,
// and loaded secrets.
func providerConfig(cmd *cobra.Command) types.ProviderConfig {
	cfg := types.ProviderConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		LimitPerProvider: viper.GetInt("providers.limit_per_provider"),
		RatePerSecond:    viper.GetFloat64("providers.rate_per_second"),
		OpenAlexEmail:    secretDefault("openalex-email", viper.GetString("providers.openalex_email")),
		UnpaywallEmail:   secretDefault("unpaywall-email", viper.GetString("providers.unpaywall_email")),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key",
			viper.GetString("providers.semantic_scholar_api_key")),
		Disabled:         viper.GetStringSlice("providers.disabled"),
	}
	if t := viper.GetDuration("providers.timeout"); t > 0 {
		cfg.Timeout = t
	}
	if cfg.LimitPerProvider <= 0 {
		cfg.LimitPerProvider = 10
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.LimitPerProvider = limit
	}
	if year, _ := cmd.Flags().GetInt("from-year"); year > 0 {
		cfg.FromYear = year
	}
	return cfg
}

// buildRegistry registers every known provider explicitly, skipping the
// ones disabled in configuration.
func buildRegistry(cfg types.ProviderConfig) *provider.Registry {
	client := &http.Client{Timeout: cfg.Timeout}
	registry := provider.NewRegistry(cfg.RatePerSecond, log)

	all := []provider.Provider{
		&provider.Arxiv{Client: client, UserAgent: cfg.UserAgent},
		&provider.OpenReview{Client: client, UserAgent: cfg.UserAgent},
		&provider.PubMed{Client: client, UserAgent: cfg.UserAgent},
		&provider.HAL{Client: client, UserAgent: cfg.UserAgent},
		&provider.Zenodo{Client: client, UserAgent: cfg.UserAgent},
		&provider.OpenAlex{Client: client, UserAgent: cfg.UserAgent, Email: cfg.OpenAlexEmail},
		&provider.SemanticScholar{Client: client, UserAgent: cfg.UserAgent, APIKey: cfg.SemanticScholarAPIKey},
	}
	for _, p := range all {
		if slices.Contains(cfg.Disabled, p.Name()) {
			continue
		}
		registry.Register(p)
	}
	return registry
}

// llmConfig assembles chat-model settings from flags, config file, and
// loaded secrets.
func llmConfig(cmd *cobra.Command) types.LLMConfig {
	cfg := types.LLMConfig{
		Provider:    viper.GetString("llm.provider"),
		Model:       viper.GetString("llm.model"),
		APIKey:      secretDefault("openai-api-key", viper.GetString("llm.api_key")),
		BaseURL:     viper.GetString("llm.base_url"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Temperature: float32(viper.GetFloat64("llm.temperature")),
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	return cfg
}

// newLLMClient builds the chat client for commands that need one.
func newLLMClient(cmd *cobra.Command) (llm.Client, error) {
	return llm.NewOpenAI(llmConfig(cmd), log)
}

// researchConfig assembles deep-research settings from flags.
func researchConfig(cmd *cobra.Command) types.ResearchConfig {
	depth, _ := cmd.Flags().GetString("depth")
	cfg := types.ResearchConfig{
		Depth: types.ResearchDepth(depth),
	}
	if year, _ := cmd.Flags().GetInt("from-year"); year > 0 {
		cfg.FromYear = year
	}
	return cfg
}
