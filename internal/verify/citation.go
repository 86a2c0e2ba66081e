// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks research output against external registries:
// citation existence lookups, numeric-claim extraction, and evidence
// grading.
package verify

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-mentor/internal/httputil"
	"github.com/pdiddy/research-mentor/pkg/types"
)

// Registry endpoints for citation lookups. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivQueryBase    = "https://export.arxiv.org/api/query"
	crossrefWorksBase = "https://api.crossref.org/works"
)

// similarityThreshold is the minimum token-set Jaccard similarity between
// the claimed and found titles for a match to count as verified.
const similarityThreshold = 0.8

// partialThreshold marks a near-miss: a record was found but its title
// only partially overlaps the claim.
const partialThreshold = 0.5

// Verifier confirms that cited papers exist. Lookups hit arXiv first,
// then CrossRef, and results are cached in memory per verifier keyed on
// the lowercased title.
type Verifier struct {
	Client    *http.Client
	UserAgent string

	mu    sync.Mutex
	cache map[string]types.VerifiedCitation
	log   zerolog.Logger
}

// NewVerifier builds a citation verifier around the given HTTP client.
func NewVerifier(client *http.Client, userAgent string, log zerolog.Logger) *Verifier {
	return &Verifier{
		Client:    client,
		UserAgent: userAgent,
		cache:     make(map[string]types.VerifiedCitation),
		log:       log,
	}
}

// Verify confirms a citation by title. Lookup failures never fail the
// call: they are recorded in the result's Issues and the citation comes
// back unverified.
func (v *Verifier) Verify(ctx context.Context, title string, authors []string, year int) types.VerifiedCitation {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return types.VerifiedCitation{
			OriginalTitle: title,
			Status:        types.StatusUnverified,
			Issues:        []string{"empty title"},
		}
	}

	v.mu.Lock()
	if cached, ok := v.cache[key]; ok {
		v.mu.Unlock()
		return cached
	}
	v.mu.Unlock()

	result := types.VerifiedCitation{
		OriginalTitle: title,
		Status:        types.StatusNotFound,
	}

	if match, err := v.searchArxiv(ctx, title); err != nil {
		result.Issues = append(result.Issues, fmt.Sprintf("arxiv lookup: %v", err))
		result.Status = types.StatusUnverified
	} else if match != nil {
		v.apply(&result, *match, year)
	}

	if !result.Verified() {
		if match, err := v.searchCrossref(ctx, title); err != nil {
			result.Issues = append(result.Issues, fmt.Sprintf("crossref lookup: %v", err))
			if result.Status == types.StatusNotFound {
				result.Status = types.StatusUnverified
			}
		} else if match != nil && match.similarity > result.Confidence {
			v.apply(&result, *match, year)
		}
	}

	v.mu.Lock()
	v.cache[key] = result
	v.mu.Unlock()
	return result
}

// VerifyArxivID confirms that an arXiv identifier resolves to a paper.
func (v *Verifier) VerifyArxivID(ctx context.Context, id string) types.VerifiedCitation {
	result := types.VerifiedCitation{
		OriginalTitle: id,
		Status:        types.StatusNotFound,
	}

	reqURL := fmt.Sprintf("%s?id_list=%s&max_results=1", arxivQueryBase, url.QueryEscape(id))
	feed, err := v.fetchArxivFeed(ctx, reqURL)
	if err != nil {
		result.Status = types.StatusUnverified
		result.Issues = append(result.Issues, fmt.Sprintf("arxiv lookup: %v", err))
		return result
	}

	for _, entry := range feed.Entries {
		title := strings.Join(strings.Fields(entry.Title), " ")
		if title == "" || strings.EqualFold(title, "Error") {
			continue
		}
		result.Status = types.StatusVerified
		result.Confidence = 1.0
		result.Source = "arxiv"
		result.VerifiedTitle = title
		result.ArxivID = id
		result.URL = "https://arxiv.org/abs/" + id
		for _, a := range entry.Authors {
			result.Authors = append(result.Authors, strings.TrimSpace(a.Name))
		}
		break
	}
	return result
}

// candidate is a registry record scored against the claimed title.
type candidate struct {
	title      string
	doi        string
	arxivID    string
	url        string
	authors    []string
	year       int
	venue      string
	source     string
	similarity float64
}

// apply copies an accepted or near-miss candidate into the result.
func (v *Verifier) apply(result *types.VerifiedCitation, match candidate, claimedYear int) {
	result.Confidence = match.similarity
	result.VerifiedTitle = match.title
	result.DOI = match.doi
	result.ArxivID = match.arxivID
	result.URL = match.url
	result.Authors = match.authors
	result.Year = match.year
	result.Venue = match.venue
	result.Source = match.source

	switch {
	case match.similarity > similarityThreshold:
		result.Status = types.StatusVerified
	case match.similarity >= partialThreshold:
		result.Status = types.StatusPartial
		result.Issues = append(result.Issues,
			fmt.Sprintf("best match %q only partially overlaps claimed title", match.title))
	default:
		result.Status = types.StatusNotFound
		return
	}

	if claimedYear > 0 && match.year > 0 && abs(claimedYear-match.year) > 1 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("claimed year %d but registry says %d", claimedYear, match.year))
	}
}

func (v *Verifier) searchArxiv(ctx context.Context, title string) (*candidate, error) {
	query := fmt.Sprintf(`ti:"%s"`, strings.Join(strings.Fields(title), " "))
	reqURL := fmt.Sprintf("%s?search_query=%s&max_results=5", arxivQueryBase, url.QueryEscape(query))

	feed, err := v.fetchArxivFeed(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var best *candidate
	for _, entry := range feed.Entries {
		found := strings.Join(strings.Fields(entry.Title), " ")
		sim := titleSimilarity(title, found)
		if best != nil && sim <= best.similarity {
			continue
		}

		c := &candidate{
			title:      found,
			source:     "arxiv",
			similarity: sim,
		}
		if id := arxivIDFromURL(entry.ID); id != "" {
			c.arxivID = id
			c.url = "https://arxiv.org/abs/" + id
		}
		for _, a := range entry.Authors {
			c.authors = append(c.authors, strings.TrimSpace(a.Name))
		}
		if len(entry.Published) >= 4 {
			fmt.Sscanf(entry.Published[:4], "%d", &c.year)
		}
		best = c
	}
	if best == nil || best.similarity < partialThreshold {
		return nil, nil
	}
	return best, nil
}

func (v *Verifier) searchCrossref(ctx context.Context, title string) (*candidate, error) {
	params := url.Values{
		"query.title": {title},
		"rows":        {"5"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefWorksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", v.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, v.Client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("CrossRef request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	var best *candidate
	for _, item := range cr.Message.Items {
		if len(item.Title) == 0 {
			continue
		}
		found := item.Title[0]
		sim := titleSimilarity(title, found)
		if best != nil && sim <= best.similarity {
			continue
		}

		c := &candidate{
			title:      found,
			doi:        item.DOI,
			url:        item.URL,
			source:     "crossref",
			similarity: sim,
		}
		if c.url == "" && item.DOI != "" {
			c.url = "https://doi.org/" + item.DOI
		}
		for _, a := range item.Authors {
			name := strings.TrimSpace(a.Given + " " + a.Family)
			if name != "" {
				c.authors = append(c.authors, name)
			}
		}
		if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
			c.year = item.Issued.DateParts[0][0]
		}
		if len(item.ContainerTitle) > 0 {
			c.venue = item.ContainerTitle[0]
		}
		best = c
	}
	if best == nil || best.similarity < partialThreshold {
		return nil, nil
	}
	return best, nil
}

func (v *Verifier) fetchArxivFeed(ctx context.Context, reqURL string) (*verifyArxivFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", v.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, v.Client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("arXiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv returned HTTP %d", resp.StatusCode)
	}

	var feed verifyArxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// titleSimilarity computes token-set Jaccard similarity between two
// titles: the size of the shared word set over the size of the combined
// word set.
func titleSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// tokenSet lowercases a title and splits it into its set of
// alphanumeric words.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			set[word.String()] = true
			word.Reset()
		}
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return set
}

// arxivIDFromURL extracts the bare arXiv ID from an abs URL, dropping
// any version suffix.
func arxivIDFromURL(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		allDigits := vIdx+1 < len(id)
		for _, r := range id[vIdx+1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			id = id[:vIdx]
		}
	}
	return id
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// arXiv Atom structures for verification lookups.
type verifyArxivFeed struct {
	Entries []verifyArxivEntry `xml:"entry"`
}

type verifyArxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// CrossRef works API structures.
type crossrefResponse struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	Title          []string `json:"title"`
	DOI            string   `json:"DOI"`
	URL            string   `json:"URL"`
	ContainerTitle []string `json:"container-title"`
	Authors        []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"author"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
}
