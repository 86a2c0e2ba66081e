// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// halAPIBase is the HAL open archive Solr search endpoint. Declared as a
// var so tests can substitute an httptest server.
var halAPIBase = "https://api.archives-ouvertes.fr/search/"

// HAL queries the French HAL open archive.
type HAL struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *HAL) Name() string { return "hal" }

// Available always reports true; the HAL API is public.
func (p *HAL) Available() bool { return true }

// Search queries HAL and returns results.
func (p *HAL) Search(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty HAL query")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"q":    {query},
		"rows": {fmt.Sprintf("%d", limit)},
		"fl":   {"title_s,abstract_s,uri_s,producedDateY_i,authFullName_s,doiId_s,journalTitle_s"},
		"wt":   {"json"},
		"sort": {"score desc"},
	}
	if opts.FromYear > 0 {
		params.Set("fq", fmt.Sprintf("producedDateY_i:[%d TO *]", opts.FromYear))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, halAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HAL API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HAL API returned HTTP %d", resp.StatusCode)
	}

	var hr halResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return nil, fmt.Errorf("parsing HAL response: %w", err)
	}

	total := len(hr.Response.Docs)
	var results []types.SearchResult
	for i, doc := range hr.Response.Docs {
		if len(doc.Title) == 0 {
			continue
		}

		r := types.SearchResult{
			Title:          doc.Title[0],
			URL:            doc.URI,
			Source:         "hal",
			Year:           doc.Year,
			Authors:        doc.Authors,
			DOI:            doc.DOI,
			Venue:          doc.Journal,
			RelevanceScore: rankScore(i, total),
		}
		if len(doc.Abstract) > 0 {
			r.Abstract = doc.Abstract[0]
		}

		results = append(results, r)
	}
	return results, nil
}

// HAL Solr JSON structures. Multi-valued fields arrive as arrays.
type halResponse struct {
	Response struct {
		Docs []halDoc `json:"docs"`
	} `json:"response"`
}

type halDoc struct {
	Title    []string `json:"title_s"`
	Abstract []string `json:"abstract_s"`
	URI      string   `json:"uri_s"`
	Year     int      `json:"producedDateY_i"`
	Authors  []string `json:"authFullName_s"`
	DOI      string   `json:"doiId_s"`
	Journal  string   `json:"journalTitle_s"`
}
