// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ClaimType categorizes a numeric claim found in research text.
type ClaimType string

const (
	ClaimAccuracy    ClaimType = "accuracy"
	ClaimPerformance ClaimType = "performance"
	ClaimImprovement ClaimType = "improvement"
	ClaimOther       ClaimType = "other"
)

// ExtractedClaim is a numeric assertion pulled from free text by the claim
// extractor. A claim is created once from a text scan and read-only
// afterward.
type ExtractedClaim struct {
	// Text is the exact matched fragment (e.g. "accuracy of 94.2%").
	Text string `json:"text" yaml:"text"`

	// Value is the numeric quantity asserted.
	Value float64 `json:"value" yaml:"value"`

	// Unit is the measurement unit ("%", "ms", "FPS", "x"), empty when none.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// Type classifies what kind of claim this is.
	Type ClaimType `json:"claim_type" yaml:"claim_type"`

	// MetricName is the metric being reported ("Accuracy", "F1", "Latency").
	MetricName string `json:"metric_name" yaml:"metric_name"`

	// Context is the surrounding text, roughly 100 characters either side.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// PaperTitle links the claim back to its source paper when known.
	PaperTitle string `json:"paper_title,omitempty" yaml:"paper_title,omitempty"`

	// PaperDOI is the source paper's DOI when known.
	PaperDOI string `json:"paper_doi,omitempty" yaml:"paper_doi,omitempty"`

	// PaperArxivID is the source paper's arXiv ID when known.
	PaperArxivID string `json:"paper_arxiv_id,omitempty" yaml:"paper_arxiv_id,omitempty"`

	// Confidence starts at 0.5 and gains 0.3 for a DOI or 0.25 for an
	// arXiv ID on the linked paper.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Verifiable reports whether the claim can be traced to a registered
	// identifier (DOI or arXiv ID present).
	Verifiable bool `json:"is_verifiable" yaml:"is_verifiable"`
}

// ClaimValidation records sanity-check results for one claim.
type ClaimValidation struct {
	// Valid is false when the claim's value is impossible for its type
	// (e.g. accuracy outside [0,100]).
	Valid bool `json:"is_valid" yaml:"is_valid"`

	// Issues lists hard validation failures.
	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`

	// Warnings lists soft problems, such as a missing identifier.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
