// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"github.com/pdiddy/research-mentor/pkg/types"
)

// Rubric weights, summing to 1.0.
var evidenceWeights = map[string]float64{
	"citation_verified":    0.25,
	"doi_present":          0.15,
	"peer_reviewed":        0.15,
	"reproducible":         0.15,
	"experimental_details": 0.10,
	"dataset_specified":    0.10,
	"comparison_fair":      0.05,
	"confidence_interval":  0.05,
}

// Penalty multipliers applied to the weighted sum.
const (
	syntheticPenalty       = 0.2
	simulationMixedPenalty = 0.8
)

// Grade cutoffs. The thresholds are fixed and apply uniformly regardless
// of sample size: a single-source assessment can reach grade A.
const (
	gradeACutoff = 0.85
	gradeBCutoff = 0.70
	gradeCCutoff = 0.50
	gradeDCutoff = 0.30
)

// GradeScore maps a rubric score in [0,1] to its letter bucket.
func GradeScore(score float64) types.EvidenceGrade {
	switch {
	case score >= gradeACutoff:
		return types.GradeA
	case score >= gradeBCutoff:
		return types.GradeB
	case score >= gradeCCutoff:
		return types.GradeC
	case score >= gradeDCutoff:
		return types.GradeD
	default:
		return types.GradeF
	}
}

// GradeEvidence scores a source's evidence factors against the weighted
// rubric and returns the assessment with per-factor contributions,
// observations, and improvement recommendations. Deterministic; no
// learned model.
func GradeEvidence(f types.EvidenceFactors) types.EvidenceAssessment {
	factors := map[string]float64{
		"citation_verified":    citationFactor(f),
		"doi_present":          identifierFactor(f),
		"peer_reviewed":        peerReviewFactor(f),
		"reproducible":         reproducibleFactor(f),
		"experimental_details": boolFactor(f.ExperimentalDetails),
		"dataset_specified":    boolFactor(f.DatasetSpecified),
		"comparison_fair":      boolFactor(f.ComparisonFair),
		"confidence_interval":  boolFactor(f.ConfidenceInterval),
	}

	score := 0.0
	for name, weight := range evidenceWeights {
		score += weight * factors[name]
	}
	if f.Synthetic {
		score *= syntheticPenalty
	}
	if !f.SimulationDistinguished {
		score *= simulationMixedPenalty
	}

	a := types.EvidenceAssessment{
		Grade:        GradeScore(score),
		Score:        score,
		FactorScores: factors,
	}
	annotate(&a, f)
	return a
}

// citationFactor gives full credit for a registry-verified citation and
// partial credit when the source at least carries an identifier that
// could be checked.
func citationFactor(f types.EvidenceFactors) float64 {
	switch {
	case f.CitationVerified:
		return 1.0
	case f.HasDOI || f.HasArxivID:
		return 0.7
	default:
		return 0
	}
}

// identifierFactor scores the DOI slot. An arXiv-only source gets most
// of the credit since the identifier is still resolvable.
func identifierFactor(f types.EvidenceFactors) float64 {
	switch {
	case f.HasDOI:
		return 1.0
	case f.HasArxivID:
		return 0.8
	default:
		return 0
	}
}

// peerReviewFactor keeps a floor for preprints rather than zeroing them.
func peerReviewFactor(f types.EvidenceFactors) float64 {
	if f.PeerReviewed {
		return 1.0
	}
	return 0.3
}

// reproducibleFactor gives full credit for a code release and half
// credit when the experimental setup is documented well enough to
// reimplement without one.
func reproducibleFactor(f types.EvidenceFactors) float64 {
	switch {
	case f.ReproducibleCode:
		return 1.0
	case f.ExperimentalDetails:
		return 0.5
	default:
		return 0
	}
}

func boolFactor(b bool) float64 {
	if b {
		return 1.0
	}
	return 0
}

func annotate(a *types.EvidenceAssessment, f types.EvidenceFactors) {
	if f.CitationVerified {
		a.Strengths = append(a.Strengths, "citation verified against an external registry")
	} else {
		a.Weaknesses = append(a.Weaknesses, "citation not verified")
		if f.HasDOI || f.HasArxivID {
			a.Recommendations = append(a.Recommendations, "verify the citation via its DOI or arXiv ID")
		} else {
			a.Recommendations = append(a.Recommendations, "locate a DOI or arXiv ID for this source")
		}
	}

	if f.PeerReviewed {
		a.Strengths = append(a.Strengths, "published in a peer-reviewed venue")
	} else {
		a.Weaknesses = append(a.Weaknesses, "not peer reviewed")
	}

	if f.ReproducibleCode {
		a.Strengths = append(a.Strengths, "code is available for reproduction")
	} else {
		a.Recommendations = append(a.Recommendations, "look for a code release to reproduce the results")
	}

	if !f.ExperimentalDetails {
		a.Weaknesses = append(a.Weaknesses, "experimental setup is not documented")
	}
	if !f.DatasetSpecified {
		a.Weaknesses = append(a.Weaknesses, "dataset is not specified")
	}
	if f.Synthetic {
		a.Weaknesses = append(a.Weaknesses, "content appears synthetic or fabricated")
	}
	if !f.SimulationDistinguished {
		a.Weaknesses = append(a.Weaknesses, "simulated and real-world results are not distinguished")
	}
}
