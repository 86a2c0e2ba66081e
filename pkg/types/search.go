// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-mentor
// pipeline: provider search results, citation verification records,
// extracted claims, evidence assessments, and research reports.
package types

// SearchResult is the uniform shape every search provider returns.
// A result is immutable once produced by a provider; later stages copy
// it into ValidatedSource rather than mutating it.
type SearchResult struct {
	// Title is the paper title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract or description, possibly truncated
	// by the provider adapter.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the landing page for the paper.
	URL string `json:"url" yaml:"url"`

	// Source identifies the provider that found this result
	// (e.g. "arxiv", "openreview", "pubmed", "hal", "zenodo", "openalex").
	Source string `json:"source" yaml:"source"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Citations is the citation count when the provider reports one.
	Citations int `json:"citations,omitempty" yaml:"citations,omitempty"`

	// Venue is the journal, conference, or repository name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// RelevanceScore is a value between 0.0 and 1.0 indicating relevance
	// to the query. Providers without native scores derive it from rank.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// DOI is the bare DOI (no https://doi.org/ prefix) when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArxivID is the arXiv identifier without version suffix when known.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// PMCID is the PubMed Central identifier (with PMC prefix) when known.
	PMCID string `json:"pmc_id,omitempty" yaml:"pmc_id,omitempty"`

	// PDFURL is a direct PDF link when the provider supplies one.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Metadata carries provider-specific fields that have no uniform slot.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Identifier returns the strongest identifier for deduplication:
// DOI, then arXiv ID, then URL.
func (r SearchResult) Identifier() string {
	switch {
	case r.DOI != "":
		return "doi:" + r.DOI
	case r.ArxivID != "":
		return "arxiv:" + r.ArxivID
	case r.URL != "":
		return "url:" + r.URL
	default:
		return ""
	}
}
