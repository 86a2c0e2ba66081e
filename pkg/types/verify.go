// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// VerificationStatus records the outcome of a citation lookup.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusPartial    VerificationStatus = "partial"
	StatusUnverified VerificationStatus = "unverified"
	StatusNotFound   VerificationStatus = "not_found"
	StatusSynthetic  VerificationStatus = "synthetic"
)

// VerifiedCitation is the result of confirming a paper exists in an
// external registry (arXiv or CrossRef).
type VerifiedCitation struct {
	// OriginalTitle is the title as claimed before verification.
	OriginalTitle string `json:"original_title" yaml:"original_title"`

	// VerifiedTitle is the title found in the registry, empty when no
	// match was accepted.
	VerifiedTitle string `json:"verified_title,omitempty" yaml:"verified_title,omitempty"`

	// DOI is the registered DOI when CrossRef matched.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArxivID is the arXiv identifier when arXiv matched.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// URL is the landing page of the matched record.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Authors lists the matched record's authors.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the matched record's publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the matched record's journal or conference.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Status classifies the verification outcome.
	Status VerificationStatus `json:"status" yaml:"status"`

	// Confidence is the title similarity of the accepted match, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Source names the registry that produced the match ("arxiv", "crossref").
	Source string `json:"verification_source,omitempty" yaml:"verification_source,omitempty"`

	// Issues records lookup problems (network errors, malformed responses).
	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Verified reports whether the citation was confirmed against a registry.
func (c VerifiedCitation) Verified() bool {
	return c.Status == StatusVerified
}
