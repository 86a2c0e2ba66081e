// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider adapts free academic search APIs (arXiv, OpenReview,
// PubMed, HAL, Zenodo, OpenAlex, Semantic Scholar) to a uniform result
// shape and collects
// them behind a registry. Providers are registered explicitly at startup;
// nothing registers itself as an import side effect.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// SearchOptions narrows a provider query.
type SearchOptions struct {
	// Limit caps the number of results the provider returns. Providers
	// substitute their own default when Limit is 0.
	Limit int

	// FromYear drops results published before this year; 0 disables the
	// filter. Providers that cannot filter server-side filter after
	// parsing.
	FromYear int
}

// Provider searches a single academic API. Each adapter implements this
// interface and returns results in the uniform SearchResult shape.
type Provider interface {
	Name() string

	// Available reports whether the provider can serve queries with its
	// current configuration.
	Available() bool

	Search(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error)
}

// Registry holds the configured providers in registration order and fans
// queries out to them one at a time.
type Registry struct {
	providers []Provider
	limiters  map[string]*rate.Limiter
	rps       float64
	log       zerolog.Logger
}

// NewRegistry returns an empty registry. ratePerSecond caps outbound
// requests per provider; values <= 0 fall back to 1 req/s.
func NewRegistry(ratePerSecond float64, log zerolog.Logger) *Registry {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Registry{
		limiters: make(map[string]*rate.Limiter),
		rps:      ratePerSecond,
		log:      log,
	}
}

// Register adds a provider. Registering the same name twice replaces the
// earlier instance.
func (r *Registry) Register(p Provider) {
	for i, existing := range r.providers {
		if existing.Name() == p.Name() {
			r.providers[i] = p
			return
		}
	}
	r.providers = append(r.providers, p)
	r.limiters[p.Name()] = rate.NewLimiter(rate.Limit(r.rps), 1)
}

// Get returns the provider registered under name, or nil.
func (r *Registry) Get(name string) Provider {
	for _, p := range r.providers {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// SearchAll queries every registered, available provider sequentially and
// returns a map of provider name to results. A provider failure is logged
// and yields an empty entry for that provider; the remaining providers
// still run. SearchAll fails only when the context is cancelled.
func (r *Registry) SearchAll(ctx context.Context, query string, opts SearchOptions) (map[string][]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	out := make(map[string][]types.SearchResult, len(r.providers))
	for _, p := range r.providers {
		if !p.Available() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if lim := r.limiters[p.Name()]; lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return out, err
			}
		}

		results, err := p.Search(ctx, query, opts)
		if err != nil {
			r.log.Warn().Str("provider", p.Name()).Err(err).Msg("provider search failed")
			out[p.Name()] = nil
			continue
		}
		r.log.Debug().Str("provider", p.Name()).Int("results", len(results)).Msg("provider search done")
		out[p.Name()] = results
	}
	return out, nil
}

// Merge flattens a SearchAll result map into a single slice sorted by
// relevance score, descending. Provider order breaks ties so output is
// deterministic.
func Merge(byProvider map[string][]types.SearchResult) []types.SearchResult {
	names := make([]string, 0, len(byProvider))
	for name := range byProvider {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []types.SearchResult
	for _, name := range names {
		all = append(all, byProvider[name]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RelevanceScore > all[j].RelevanceScore
	})
	return all
}

// rankScore derives a relevance score from a result's position when the
// provider reports none of its own. Providers return results sorted by
// relevance, so earlier positions score higher.
func rankScore(i, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	return 1.0 - float64(i)/float64(total-1)*0.9
}
