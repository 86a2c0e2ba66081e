// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// openReviewAPIBase is the OpenReview notes search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openReviewAPIBase = "https://api.openreview.net/notes/search"

// OpenReview queries the OpenReview API for conference submissions and
// reviews (ICLR, NeurIPS, and other venues hosted there).
type OpenReview struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *OpenReview) Name() string { return "openreview" }

// Available always reports true; the search endpoint is public.
func (p *OpenReview) Available() bool { return true }

// Search queries OpenReview, then keeps only notes whose title or abstract
// actually mentions a query term. The term search is broad and returns
// loosely related venue notes otherwise.
func (p *OpenReview) Search(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty OpenReview query")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"term":    {query},
		"content": {"all"},
		// Request extra so the relevance filter still fills the limit.
		"limit": {fmt.Sprintf("%d", limit*3)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openReviewAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenReview API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenReview API returned HTTP %d", resp.StatusCode)
	}

	var or openReviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("parsing OpenReview response: %w", err)
	}

	words := strings.Fields(strings.ToLower(query))
	total := len(or.Notes)
	var results []types.SearchResult
	for i, note := range or.Notes {
		title := note.Content.Title.String()
		abstract := note.Content.Abstract.String()
		if title == "" {
			continue
		}
		if !mentionsAny(strings.ToLower(title+" "+abstract), words) {
			continue
		}

		r := types.SearchResult{
			Title:          title,
			Abstract:       abstract,
			URL:            "https://openreview.net/forum?id=" + note.Forum,
			Source:         "openreview",
			Venue:          note.Content.Venue.String(),
			RelevanceScore: rankScore(i, total),
		}
		r.Authors = append(r.Authors, note.Content.Authors.Strings()...)
		if note.CDate > 0 {
			r.Year = time.UnixMilli(note.CDate).UTC().Year()
		}
		if opts.FromYear > 0 && r.Year > 0 && r.Year < opts.FromYear {
			continue
		}

		results = append(results, r)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// mentionsAny reports whether text contains at least one of the words.
func mentionsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// OpenReview API JSON structures. The v1 API wraps string fields directly;
// the v2 API wraps them as {"value": ...}. orString accepts both.
type openReviewResponse struct {
	Notes []openReviewNote `json:"notes"`
}

type openReviewNote struct {
	ID      string            `json:"id"`
	Forum   string            `json:"forum"`
	CDate   int64             `json:"cdate"`
	Content openReviewContent `json:"content"`
}

type openReviewContent struct {
	Title    orString  `json:"title"`
	Abstract orString  `json:"abstract"`
	Venue    orString  `json:"venue"`
	Authors  orStrings `json:"authors"`
}

type orString struct {
	value string
}

func (s orString) String() string { return s.value }

func (s *orString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.value = strings.TrimSpace(plain)
		return nil
	}
	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	s.value = strings.TrimSpace(wrapped.Value)
	return nil
}

// orStrings is a string list that accepts both the v1 plain-array shape
// and the v2 {"value": [...]} wrapper.
type orStrings struct {
	values []string
}

func (s orStrings) Strings() []string { return s.values }

func (s *orStrings) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.values = plain
		return nil
	}
	var wrapped struct {
		Value []string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	s.values = wrapped.Value
	return nil
}
