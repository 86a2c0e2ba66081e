// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// zenodoAPIBase is the Zenodo records endpoint. Declared as a var so
// tests can substitute an httptest server.
var zenodoAPIBase = "https://zenodo.org/api/records"

// Zenodo queries the Zenodo research repository for publications.
type Zenodo struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *Zenodo) Name() string { return "zenodo" }

// Available always reports true; record search needs no token.
func (p *Zenodo) Available() bool { return true }

// Search queries Zenodo publication records and returns results.
func (p *Zenodo) Search(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty Zenodo query")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"q":    {query},
		"size": {fmt.Sprintf("%d", limit)},
		"type": {"publication"},
		"sort": {"bestmatch"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, zenodoAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Zenodo API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Zenodo API returned HTTP %d", resp.StatusCode)
	}

	var zr zenodoResponse
	if err := json.NewDecoder(resp.Body).Decode(&zr); err != nil {
		return nil, fmt.Errorf("parsing Zenodo response: %w", err)
	}

	total := len(zr.Hits.Hits)
	var results []types.SearchResult
	for i, hit := range zr.Hits.Hits {
		md := hit.Metadata
		if md.Title == "" {
			continue
		}

		r := types.SearchResult{
			Title:          md.Title,
			Abstract:       stripTags(md.Description),
			URL:            hit.Links.SelfHTML,
			Source:         "zenodo",
			DOI:            md.DOI,
			RelevanceScore: rankScore(i, total),
		}
		if r.URL == "" && md.DOI != "" {
			r.URL = "https://doi.org/" + md.DOI
		}
		for _, c := range md.Creators {
			if c.Name != "" {
				r.Authors = append(r.Authors, c.Name)
			}
		}
		// publication_date is "YYYY-MM-DD" or just "YYYY".
		if len(md.PublicationDate) >= 4 {
			if y, convErr := strconv.Atoi(md.PublicationDate[:4]); convErr == nil {
				r.Year = y
			}
		}
		if opts.FromYear > 0 && r.Year > 0 && r.Year < opts.FromYear {
			continue
		}

		results = append(results, r)
	}
	return results, nil
}

// stripTags removes HTML markup from Zenodo record descriptions, which
// arrive as rich text.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Zenodo API JSON structures.
type zenodoResponse struct {
	Hits struct {
		Hits []zenodoHit `json:"hits"`
	} `json:"hits"`
}

type zenodoHit struct {
	Metadata zenodoMetadata `json:"metadata"`
	Links    struct {
		SelfHTML string `json:"self_html"`
	} `json:"links"`
}

type zenodoMetadata struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DOI             string `json:"doi"`
	PublicationDate string `json:"publication_date"`
	Creators        []struct {
		Name string `json:"name"`
	} `json:"creators"`
}
