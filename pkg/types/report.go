// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceSummary is one paper after LLM summarization.
type SourceSummary struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// URL is the landing page.
	URL string `json:"url" yaml:"url"`

	// Source is the provider that found the paper.
	Source string `json:"source" yaml:"source"`

	// Summary is the model's two-sentence summary, or an abstract prefix
	// when summarization failed.
	Summary string `json:"summary" yaml:"summary"`

	// KeyFindings lists the model's extracted contributions.
	KeyFindings []string `json:"key_findings,omitempty" yaml:"key_findings,omitempty"`

	// RelevanceScore is carried over from the search result.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Citations is the citation count when known.
	Citations int `json:"citations,omitempty" yaml:"citations,omitempty"`

	// Authors lists the paper authors.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// DOI, ArxivID, PMCID identify the paper for verification and
	// open-access resolution.
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PMCID   string `json:"pmc_id,omitempty" yaml:"pmc_id,omitempty"`
}

// ResearchReport is the aggregate output of one deep-research run. It is
// built once per Research call and returned to the caller; the pipeline
// itself does not persist it.
type ResearchReport struct {
	// Topic is the research question that drove the run.
	Topic string `json:"topic" yaml:"topic"`

	// Summary is the executive summary synthesized by the model.
	Summary string `json:"summary" yaml:"summary"`

	// KeyThemes lists recurring themes in the literature.
	KeyThemes []string `json:"key_themes,omitempty" yaml:"key_themes,omitempty"`

	// Sources lists the summarized papers that informed the report.
	Sources []SourceSummary `json:"sources" yaml:"sources"`

	// GapAnalysis describes under-explored areas, empty when skipped.
	GapAnalysis string `json:"gap_analysis,omitempty" yaml:"gap_analysis,omitempty"`

	// FutureDirections lists suggested follow-up research.
	FutureDirections []string `json:"future_directions,omitempty" yaml:"future_directions,omitempty"`

	// Markdown is the rendered report document.
	Markdown string `json:"markdown_report,omitempty" yaml:"markdown_report,omitempty"`

	// Metadata carries run statistics (paper counts, depth, degradations).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ValidatedSource is a report source after the verification and grading
// passes. Unlike SearchResult it is mutated in place as the stages run.
type ValidatedSource struct {
	// Title, URL, Source, Year, Authors, Venue, Abstract carry over from
	// the search result.
	Title    string   `json:"title" yaml:"title"`
	URL      string   `json:"url" yaml:"url"`
	Source   string   `json:"source" yaml:"source"`
	Year     int      `json:"year,omitempty" yaml:"year,omitempty"`
	Authors  []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Venue    string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// DOI, ArxivID, PMCID are identifiers found during search or
	// verification.
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PMCID   string `json:"pmc_id,omitempty" yaml:"pmc_id,omitempty"`

	// Verified reports whether the citation was confirmed.
	Verified bool `json:"is_verified" yaml:"is_verified"`

	// VerificationStatus is the detailed lookup outcome.
	VerificationStatus VerificationStatus `json:"verification_status" yaml:"verification_status"`

	// Confidence is the title-match similarity for verified sources.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// EvidenceGrade and EvidenceScore come from the grading rubric.
	EvidenceGrade EvidenceGrade `json:"evidence_grade" yaml:"evidence_grade"`
	EvidenceScore float64       `json:"evidence_score" yaml:"evidence_score"`

	// PDFURL and HTMLURL are resolved open-access links, when any.
	PDFURL  string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	HTMLURL string `json:"html_url,omitempty" yaml:"html_url,omitempty"`

	// OpenAccess reports whether a free full-text copy was located.
	OpenAccess bool `json:"is_open_access" yaml:"is_open_access"`

	// OAStatus is the Unpaywall color (gold, green, bronze, hybrid, closed).
	OAStatus string `json:"oa_status,omitempty" yaml:"oa_status,omitempty"`
}

// ValidatedClaim is an extracted claim linked to a graded source.
type ValidatedClaim struct {
	// Text, Value, Unit, MetricName carry over from the extracted claim.
	Text       string  `json:"text" yaml:"text"`
	Value      float64 `json:"value" yaml:"value"`
	Unit       string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	MetricName string  `json:"metric_name" yaml:"metric_name"`

	// SourceTitle, SourceDOI, SourceArxivID link the claim to the matched
	// source, empty when no source matched.
	SourceTitle   string `json:"source_title,omitempty" yaml:"source_title,omitempty"`
	SourceDOI     string `json:"source_doi,omitempty" yaml:"source_doi,omitempty"`
	SourceArxivID string `json:"source_arxiv_id,omitempty" yaml:"source_arxiv_id,omitempty"`

	// EvidenceGrade rates the claim's supporting evidence.
	EvidenceGrade EvidenceGrade `json:"evidence_grade" yaml:"evidence_grade"`

	// Verifiable reports whether the matched source carries a DOI or
	// arXiv ID.
	Verifiable bool `json:"is_verifiable" yaml:"is_verifiable"`
}

// SimilarPaper is a recommendation produced from a report's top sources.
type SimilarPaper struct {
	// Title, Authors, Year, URL identify the recommended paper.
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	URL     string   `json:"url" yaml:"url"`

	// PDFURL is a direct PDF link when resolvable.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// DOI and ArxivID are the paper's identifiers when known.
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Citations is the citation count when known.
	Citations int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// SimilarityScore ranks the recommendation, higher is closer.
	SimilarityScore float64 `json:"similarity_score" yaml:"similarity_score"`

	// Reason explains why the paper was recommended.
	Reason string `json:"recommendation_reason,omitempty" yaml:"recommendation_reason,omitempty"`
}

// ValidationIssue flags a quality problem discovered during validation.
type ValidationIssue struct {
	// Severity is "warning" or "info".
	Severity string `json:"severity" yaml:"severity"`

	// Category groups the issue ("citation", "claim", "open_access").
	Category string `json:"category" yaml:"category"`

	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
}

// ValidatedReport is a research report with verification, claim, and
// grading layers applied.
type ValidatedReport struct {
	// Topic is the research question.
	Topic string `json:"topic" yaml:"topic"`

	// QueryID uniquely identifies this run.
	QueryID string `json:"query_id" yaml:"query_id"`

	// Timestamp is when the run completed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Summary and KeyThemes carry over from the underlying report.
	Summary   string   `json:"summary" yaml:"summary"`
	KeyThemes []string `json:"key_themes,omitempty" yaml:"key_themes,omitempty"`

	// Sources are the verified and graded papers.
	Sources []ValidatedSource `json:"sources" yaml:"sources"`

	// Claims are the extracted and graded numeric claims.
	Claims []ValidatedClaim `json:"claims,omitempty" yaml:"claims,omitempty"`

	// SimilarPapers lists recommendations from the top sources.
	SimilarPapers []SimilarPaper `json:"similar_papers,omitempty" yaml:"similar_papers,omitempty"`

	// OverallGrade and OverallScore summarize evidence quality across
	// all sources using the standard cutoffs.
	OverallGrade EvidenceGrade `json:"overall_grade" yaml:"overall_grade"`
	OverallScore float64       `json:"overall_score" yaml:"overall_score"`

	// VerifiedSources / TotalSources and VerifiableClaims / TotalClaims
	// are the validation counters.
	VerifiedSources  int `json:"verified_citations" yaml:"verified_citations"`
	TotalSources     int `json:"total_citations" yaml:"total_citations"`
	VerifiableClaims int `json:"verifiable_claims" yaml:"verifiable_claims"`
	TotalClaims      int `json:"total_claims" yaml:"total_claims"`

	// OpenAccessSources counts sources with a resolved free full text.
	OpenAccessSources int `json:"open_access_sources" yaml:"open_access_sources"`

	// Issues and Recommendations surface quality problems to the reader.
	Issues          []ValidationIssue `json:"validation_issues,omitempty" yaml:"validation_issues,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	// ProviderStats counts sources per provider.
	ProviderStats map[string]int `json:"provider_stats,omitempty" yaml:"provider_stats,omitempty"`

	// GapAnalysis and FutureDirections carry over from the base report.
	GapAnalysis      string   `json:"gap_analysis,omitempty" yaml:"gap_analysis,omitempty"`
	FutureDirections []string `json:"future_directions,omitempty" yaml:"future_directions,omitempty"`

	// Markdown is the rendered report document.
	Markdown string `json:"markdown_report,omitempty" yaml:"markdown_report,omitempty"`

	// Metadata carries run statistics.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
