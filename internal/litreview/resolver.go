// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package litreview layers validation on top of deep research: citation
// verification, claim grading, open-access link resolution, and
// similar-paper recommendations, composed into a validated report.
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

// Open-access lookup endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	unpaywallAPIBase  = "https://api.unpaywall.org/v2"
	openAlexWorksBase = "https://api.openalex.org/works"
	pmcArticleBase    = "https://www.ncbi.nlm.nih.gov/pmc/articles"
)

// Resolver locates free full-text links for a source. Resolution tries
// the cheapest signal first: an arXiv ID is always open access, then a
// PMC ID, then Unpaywall by DOI, then OpenAlex as a last resort.
type Resolver struct {
	Client    *http.Client
	UserAgent string

	// UnpaywallEmail is required by the Unpaywall terms; resolution
	// skips Unpaywall when it is empty.
	UnpaywallEmail string

	// OpenAlexEmail joins the polite pool for the OpenAlex fallback.
	OpenAlexEmail string

	log zerolog.Logger
}

// NewResolver builds an open-access link resolver.
func NewResolver(client *http.Client, userAgent, unpaywallEmail, openAlexEmail string, log zerolog.Logger) *Resolver {
	return &Resolver{
		Client:         client,
		UserAgent:      userAgent,
		UnpaywallEmail: unpaywallEmail,
		OpenAlexEmail:  openAlexEmail,
		log:            log,
	}
}

// Resolve fills the source's open-access fields in place. Lookup
// failures leave the source closed rather than failing the pass.
func (r *Resolver) Resolve(ctx context.Context, src *types.ValidatedSource) {
	if src.ArxivID != "" {
		src.PDFURL = "https://arxiv.org/pdf/" + src.ArxivID
		src.HTMLURL = "https://arxiv.org/abs/" + src.ArxivID
		src.OpenAccess = true
		src.OAStatus = "green"
		return
	}

	if src.PMCID != "" {
		src.HTMLURL = fmt.Sprintf("%s/%s/", pmcArticleBase, src.PMCID)
		src.PDFURL = fmt.Sprintf("%s/%s/pdf/", pmcArticleBase, src.PMCID)
		src.OpenAccess = true
		src.OAStatus = "green"
		return
	}

	if src.DOI == "" {
		return
	}

	if r.UnpaywallEmail != "" {
		if r.resolveUnpaywall(ctx, src) {
			return
		}
	}
	r.resolveOpenAlex(ctx, src)
}

func (r *Resolver) resolveUnpaywall(ctx context.Context, src *types.ValidatedSource) bool {
	reqURL := fmt.Sprintf("%s/%s?email=%s", unpaywallAPIBase, url.PathEscape(src.DOI), url.QueryEscape(r.UnpaywallEmail))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 2)
	if err != nil {
		r.log.Debug().Str("doi", src.DOI).Err(err).Msg("unpaywall lookup failed")
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var up struct {
		IsOA          bool   `json:"is_oa"`
		OAStatus      string `json:"oa_status"`
		BestOALocation struct {
			URLForPDF string `json:"url_for_pdf"`
			URL       string `json:"url"`
		} `json:"best_oa_location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return false
	}

	src.OAStatus = up.OAStatus
	if !up.IsOA {
		return true // answered, just closed
	}
	src.OpenAccess = true
	src.PDFURL = up.BestOALocation.URLForPDF
	src.HTMLURL = up.BestOALocation.URL
	return true
}

func (r *Resolver) resolveOpenAlex(ctx context.Context, src *types.ValidatedSource) {
	reqURL := fmt.Sprintf("%s/doi:%s", openAlexWorksBase, url.PathEscape(src.DOI))
	if r.OpenAlexEmail != "" {
		reqURL += "?mailto=" + url.QueryEscape(r.OpenAlexEmail)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 2)
	if err != nil {
		r.log.Debug().Str("doi", src.DOI).Err(err).Msg("openalex oa lookup failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	var work struct {
		OpenAccess struct {
			IsOA     bool   `json:"is_oa"`
			OAStatus string `json:"oa_status"`
			OAURL    string `json:"oa_url"`
		} `json:"open_access"`
		PrimaryLocation struct {
			PDFURL         string `json:"pdf_url"`
			LandingPageURL string `json:"landing_page_url"`
		} `json:"primary_location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return
	}

	src.OAStatus = work.OpenAccess.OAStatus
	if !work.OpenAccess.IsOA {
		return
	}
	src.OpenAccess = true
	src.PDFURL = work.PrimaryLocation.PDFURL
	if src.PDFURL == "" {
		src.PDFURL = work.OpenAccess.OAURL
	}
	src.HTMLURL = work.PrimaryLocation.LandingPageURL
	if src.HTMLURL == "" {
		src.HTMLURL = work.OpenAccess.OAURL
	}
}

// titlePrefix returns the first 50 lowercased characters of a title,
// used for loose identity checks.
func titlePrefix(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if r := []rune(t); len(r) > 50 {
		t = string(r[:50])
	}
	return t
}
