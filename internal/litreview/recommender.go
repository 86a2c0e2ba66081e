// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package litreview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-mentor/internal/httputil"
	"github.com/pdiddy/research-mentor/pkg/types"
)

// seedSources is how many top report sources seed the recommendation
// lookup, and relatedPerSeed how many related works each seed
// contributes.
const (
	seedSources    = 3
	relatedPerSeed = 5
)

// Recommender suggests similar papers by walking the OpenAlex
// related-works graph from a report's top sources.
type Recommender struct {
	Client    *http.Client
	UserAgent string
	Email     string

	// Max caps the recommendation list (default 5).
	Max int

	log zerolog.Logger
}

// NewRecommender builds a similar-paper recommender.
func NewRecommender(client *http.Client, userAgent, email string, max int, log zerolog.Logger) *Recommender {
	if max <= 0 {
		max = 5
	}
	return &Recommender{Client: client, UserAgent: userAgent, Email: email, Max: max, log: log}
}

// Recommend returns up to Max papers related to the report's top
// sources. Lookup failures shrink the list instead of failing the run.
func (r *Recommender) Recommend(ctx context.Context, sources []types.ValidatedSource) []types.SimilarPaper {
	seen := make(map[string]bool)
	for _, src := range sources {
		seen[titlePrefix(src.Title)] = true
	}

	seeds := sources
	if len(seeds) > seedSources {
		seeds = seeds[:seedSources]
	}

	var relatedIDs []string
	for _, seed := range seeds {
		work, err := r.lookupWork(ctx, seed)
		if err != nil {
			r.log.Debug().Str("title", seed.Title).Err(err).Msg("related-works seed lookup failed")
			continue
		}
		ids := work.RelatedWorks
		if len(ids) > relatedPerSeed {
			ids = ids[:relatedPerSeed]
		}
		relatedIDs = append(relatedIDs, ids...)
	}
	if len(relatedIDs) == 0 {
		return nil
	}

	works, err := r.fetchWorks(ctx, relatedIDs)
	if err != nil {
		r.log.Debug().Err(err).Msg("related-works batch fetch failed")
		return nil
	}

	var out []types.SimilarPaper
	for i, work := range works {
		title := work.Title
		if title == "" {
			title = work.DisplayName
		}
		if title == "" || seen[titlePrefix(title)] {
			continue
		}
		seen[titlePrefix(title)] = true

		paper := types.SimilarPaper{
			Title:           title,
			Year:            work.PublicationYear,
			URL:             work.PrimaryLocation.LandingPageURL,
			PDFURL:          work.PrimaryLocation.PDFURL,
			DOI:             strings.TrimPrefix(work.DOI, "https://doi.org/"),
			Citations:       work.CitedByCount,
			SimilarityScore: 1.0 - float64(i)*0.05,
			Reason:          "related to a highly ranked source",
		}
		if paper.URL == "" {
			paper.URL = work.ID
		}
		for _, a := range work.Authorships {
			if a.Author.DisplayName != "" {
				paper.Authors = append(paper.Authors, a.Author.DisplayName)
			}
		}
		out = append(out, paper)
		if len(out) >= r.Max {
			break
		}
	}
	return out
}

// lookupWork finds the OpenAlex record for a source, by DOI when one is
// known and by title search otherwise.
func (r *Recommender) lookupWork(ctx context.Context, src types.ValidatedSource) (*relatedWork, error) {
	if src.DOI != "" {
		var work relatedWork
		if err := r.getJSON(ctx, fmt.Sprintf("%s/doi:%s", openAlexWorksBase, url.PathEscape(src.DOI)), nil, &work); err != nil {
			return nil, err
		}
		return &work, nil
	}

	params := url.Values{
		"search":   {src.Title},
		"per-page": {"1"},
	}
	var listing relatedListing
	if err := r.getJSON(ctx, openAlexWorksBase, params, &listing); err != nil {
		return nil, err
	}
	if len(listing.Results) == 0 {
		return nil, fmt.Errorf("no OpenAlex record for %q", src.Title)
	}
	return &listing.Results[0], nil
}

// fetchWorks retrieves a batch of works by OpenAlex ID in one request.
func (r *Recommender) fetchWorks(ctx context.Context, ids []string) ([]relatedWork, error) {
	short := make([]string, 0, len(ids))
	for _, id := range ids {
		short = append(short, strings.TrimPrefix(id, "https://openalex.org/"))
	}
	params := url.Values{
		"filter":   {"openalex_id:" + strings.Join(short, "|")},
		"per-page": {fmt.Sprintf("%d", len(short))},
	}
	var listing relatedListing
	if err := r.getJSON(ctx, openAlexWorksBase, params, &listing); err != nil {
		return nil, err
	}
	return listing.Results, nil
}

func (r *Recommender) getJSON(ctx context.Context, base string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if r.Email != "" {
		params.Set("mailto", r.Email)
	}
	reqURL := base
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 2)
	if err != nil {
		return fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenAlex returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return nil
}

// OpenAlex JSON structures for the related-works graph.
type relatedListing struct {
	Results []relatedWork `json:"results"`
}

type relatedWork struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DisplayName     string   `json:"display_name"`
	DOI             string   `json:"doi"`
	PublicationYear int      `json:"publication_year"`
	CitedByCount    int      `json:"cited_by_count"`
	RelatedWorks    []string `json:"related_works"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation struct {
		LandingPageURL string `json:"landing_page_url"`
		PDFURL         string `json:"pdf_url"`
	} `json:"primary_location"`
}
