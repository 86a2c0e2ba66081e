// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EvidenceGrade is a letter summarizing citation, verification, and
// reproducibility strength of a source or claim.
type EvidenceGrade string

const (
	GradeA EvidenceGrade = "A" // strong: verified identifier, reproducible
	GradeB EvidenceGrade = "B" // moderate: verified source, experimental results
	GradeC EvidenceGrade = "C" // weak: unverified but plausible
	GradeD EvidenceGrade = "D" // very weak: unverified, missing information
	GradeF EvidenceGrade = "F" // unreliable: contradictory or fabricated
)

// EvidenceFactors are the boolean inputs to the grading rubric.
type EvidenceFactors struct {
	// HasDOI is true when the source carries a DOI.
	HasDOI bool `json:"has_doi" yaml:"has_doi"`

	// HasArxivID is true when the source carries an arXiv identifier.
	HasArxivID bool `json:"has_arxiv_id" yaml:"has_arxiv_id"`

	// CitationVerified is true when the citation was confirmed against
	// an external registry.
	CitationVerified bool `json:"citation_verified" yaml:"citation_verified"`

	// PeerReviewed is true when the source appeared in a reviewed venue.
	PeerReviewed bool `json:"peer_reviewed" yaml:"peer_reviewed"`

	// ExperimentalDetails is true when the work documents its setup.
	ExperimentalDetails bool `json:"experimental_details" yaml:"experimental_details"`

	// DatasetSpecified is true when dataset name/version are given.
	DatasetSpecified bool `json:"dataset_specified" yaml:"dataset_specified"`

	// ReproducibleCode is true when code is available.
	ReproducibleCode bool `json:"reproducible_code" yaml:"reproducible_code"`

	// ConfidenceInterval is true when results carry uncertainty bounds.
	ConfidenceInterval bool `json:"confidence_interval" yaml:"confidence_interval"`

	// ComparisonFair is false when baselines look cherry-picked.
	ComparisonFair bool `json:"comparison_fair" yaml:"comparison_fair"`

	// SimulationDistinguished is false when simulated and real-world
	// results are conflated.
	SimulationDistinguished bool `json:"simulation_distinguished" yaml:"simulation_distinguished"`

	// Synthetic is true when the content appears fabricated.
	Synthetic bool `json:"synthetic" yaml:"synthetic"`
}

// EvidenceAssessment is the output of the weighted grading rubric.
type EvidenceAssessment struct {
	// Grade is the letter bucket for Score.
	Grade EvidenceGrade `json:"grade" yaml:"grade"`

	// Score is the weighted factor sum after penalties, in [0,1].
	Score float64 `json:"score" yaml:"score"`

	// FactorScores maps each rubric factor to its contribution in [0,1]
	// before weighting.
	FactorScores map[string]float64 `json:"factors" yaml:"factors"`

	// Strengths lists positive observations about the evidence.
	Strengths []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`

	// Weaknesses lists negative observations.
	Weaknesses []string `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`

	// Recommendations lists concrete steps to improve the grade.
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}
