// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package litreview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/research-mentor/internal/research"
	"github.com/pdiddy/research-mentor/internal/verify"
	"github.com/pdiddy/research-mentor/pkg/types"
)

// Agent runs the validated research pipeline: a deep-research pass
// followed by citation verification, evidence grading, claim
// extraction, open-access resolution, and similar-paper lookup.
type Agent struct {
	researcher  *research.Agent
	verifier    *verify.Verifier
	resolver    *Resolver
	recommender *Recommender
	cfg         types.ValidationConfig
	log         zerolog.Logger
}

// NewAgent wires the validation stages around an existing research
// agent. Verifier, resolver, and recommender may be nil when their
// stage is disabled in cfg.
func NewAgent(researcher *research.Agent, verifier *verify.Verifier, resolver *Resolver, recommender *Recommender, cfg types.ValidationConfig, log zerolog.Logger) *Agent {
	cfg.Normalize()
	return &Agent{
		researcher:  researcher,
		verifier:    verifier,
		resolver:    resolver,
		recommender: recommender,
		cfg:         cfg,
		log:         log.With().Str("component", "litreview").Logger(),
	}
}

// Research produces a validated report for the topic. The underlying
// research pass is the only hard dependency: validation stages degrade
// individually, recording issues instead of failing the run.
func (a *Agent) Research(ctx context.Context, topic string) (*types.ValidatedReport, error) {
	base, err := a.researcher.Research(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("research pass: %w", err)
	}

	report := &types.ValidatedReport{
		Topic:            base.Topic,
		QueryID:          uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		Summary:          base.Summary,
		KeyThemes:        base.KeyThemes,
		GapAnalysis:      base.GapAnalysis,
		FutureDirections: base.FutureDirections,
		ProviderStats:    make(map[string]int),
		Metadata:         base.Metadata,
	}

	for _, src := range base.Sources {
		vs := types.ValidatedSource{
			Title:    src.Title,
			URL:      src.URL,
			Source:   src.Source,
			Year:     src.Year,
			Authors:  src.Authors,
			Venue:    src.Venue,
			Abstract: src.Summary,
			DOI:      src.DOI,
			ArxivID:  src.ArxivID,
			PMCID:    src.PMCID,
		}
		a.validateSource(ctx, &vs, src)
		report.Sources = append(report.Sources, vs)

		for _, name := range strings.Split(src.Source, "+") {
			if name != "" {
				report.ProviderStats[name]++
			}
		}
	}

	a.extractClaims(report, base)
	a.grade(report)

	if a.cfg.EnableRecommendations && a.recommender != nil {
		report.SimilarPapers = a.recommender.Recommend(ctx, report.Sources)
	}

	a.review(report)
	report.Markdown = RenderValidatedMarkdown(report)
	return report, nil
}

// validateSource runs verification, open-access resolution, and
// evidence grading for one source in place.
func (a *Agent) validateSource(ctx context.Context, vs *types.ValidatedSource, src types.SourceSummary) {
	if a.cfg.EnableVerification && a.verifier != nil {
		cite := a.verifier.Verify(ctx, vs.Title, vs.Authors, vs.Year)
		vs.VerificationStatus = cite.Status
		vs.Verified = cite.Verified()
		vs.Confidence = cite.Confidence
		if vs.DOI == "" {
			vs.DOI = cite.DOI
		}
		if vs.ArxivID == "" {
			vs.ArxivID = cite.ArxivID
		}
		if vs.Venue == "" {
			vs.Venue = cite.Venue
		}
	} else {
		vs.VerificationStatus = types.StatusUnverified
	}

	if a.cfg.EnablePDFResolution && a.resolver != nil {
		a.resolver.Resolve(ctx, vs)
	}

	assessment := verify.GradeEvidence(inferFactors(*vs, src))
	vs.EvidenceGrade = assessment.Grade
	vs.EvidenceScore = assessment.Score
}

// inferFactors derives the grading rubric inputs from what the source
// exposes. Textual factors come from keyword scans of the summary and
// key findings, which is coarse but consistent across providers.
func inferFactors(vs types.ValidatedSource, src types.SourceSummary) types.EvidenceFactors {
	text := strings.ToLower(src.Summary + " " + strings.Join(src.KeyFindings, " "))

	return types.EvidenceFactors{
		HasDOI:              vs.DOI != "",
		HasArxivID:          vs.ArxivID != "",
		CitationVerified:    vs.Verified,
		PeerReviewed:        vs.Venue != "" && !strings.EqualFold(vs.Venue, "arXiv"),
		ExperimentalDetails: containsAny(text, "experiment", "evaluate", "evaluation", "benchmark", "ablation"),
		DatasetSpecified:    containsAny(text, "dataset", "corpus", "imagenet", "benchmark"),
		ReproducibleCode:    containsAny(text, "code", "github", "open-source", "open source", "implementation available"),
		ConfidenceInterval:  containsAny(text, "confidence interval", "std", "standard deviation", "error bar", "±"),
		ComparisonFair:      containsAny(text, "baseline", "compared", "comparison", "state-of-the-art", "state of the art"),
		SimulationDistinguished: !containsAny(text, "simulation", "simulated") ||
			containsAny(text, "real-world", "real world", "hardware", "deployment"),
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// extractClaims scans the synthesis and per-source summaries for numeric
// claims and links each to its source's evidence grade.
func (a *Agent) extractClaims(report *types.ValidatedReport, base *types.ResearchReport) {
	gradeByPrefix := make(map[string]types.EvidenceGrade)
	for _, vs := range report.Sources {
		gradeByPrefix[titlePrefix(vs.Title)] = vs.EvidenceGrade
	}

	add := func(claims []types.ExtractedClaim) {
		for _, c := range claims {
			if v := verify.ValidateClaim(c); !v.Valid {
				report.Issues = append(report.Issues, types.ValidationIssue{
					Severity: "warning",
					Category: "claim",
					Message:  fmt.Sprintf("suspicious claim %q: %s", c.Text, strings.Join(v.Issues, "; ")),
				})
			}
			vc := types.ValidatedClaim{
				Text:          c.Text,
				Value:         c.Value,
				Unit:          c.Unit,
				MetricName:    c.MetricName,
				SourceTitle:   c.PaperTitle,
				SourceDOI:     c.PaperDOI,
				SourceArxivID: c.PaperArxivID,
				Verifiable:    c.Verifiable,
				EvidenceGrade: types.GradeD,
			}
			if vc.SourceTitle == "" {
				// Synthesis-level claim: link it to a source whose
				// title is mentioned near the matched text.
				if src := matchSource(c.Context, report.Sources); src != nil {
					vc.SourceTitle = src.Title
					vc.SourceDOI = src.DOI
					vc.SourceArxivID = src.ArxivID
					vc.Verifiable = src.DOI != "" || src.ArxivID != ""
				}
			}
			if g, ok := gradeByPrefix[titlePrefix(vc.SourceTitle)]; ok && vc.SourceTitle != "" {
				vc.EvidenceGrade = g
			}
			report.Claims = append(report.Claims, vc)
		}
	}

	add(verify.ExtractClaims(base.Summary, verify.Paper{}))
	if base.GapAnalysis != "" {
		add(verify.ExtractClaims(base.GapAnalysis, verify.Paper{}))
	}
	for _, src := range base.Sources {
		add(verify.ExtractClaims(src.Summary, verify.Paper{
			Title:   src.Title,
			DOI:     src.DOI,
			ArxivID: src.ArxivID,
		}))
	}
}

// matchSource finds the report source whose title prefix appears in the
// claim's surrounding text, or nil when none does.
func matchSource(context string, sources []types.ValidatedSource) *types.ValidatedSource {
	lower := strings.ToLower(context)
	for i := range sources {
		prefix := titlePrefix(sources[i].Title)
		if prefix != "" && strings.Contains(lower, prefix) {
			return &sources[i]
		}
	}
	return nil
}

// grade fills the report-level counters and overall grade.
func (a *Agent) grade(report *types.ValidatedReport) {
	report.TotalSources = len(report.Sources)
	var sum float64
	for _, vs := range report.Sources {
		sum += vs.EvidenceScore
		if vs.Verified {
			report.VerifiedSources++
		}
		if vs.OpenAccess {
			report.OpenAccessSources++
		}
	}

	report.TotalClaims = len(report.Claims)
	for _, c := range report.Claims {
		if c.Verifiable {
			report.VerifiableClaims++
		}
	}

	if report.TotalSources > 0 {
		report.OverallScore = sum / float64(report.TotalSources)
	}
	report.OverallGrade = verify.GradeScore(report.OverallScore)
}

// review surfaces quality problems as issues and recommendations.
func (a *Agent) review(report *types.ValidatedReport) {
	if report.TotalSources == 0 {
		report.Issues = append(report.Issues, types.ValidationIssue{
			Severity: "warning",
			Category: "citation",
			Message:  "no sources were found for this topic",
		})
		return
	}

	if unverified := report.TotalSources - report.VerifiedSources; a.cfg.EnableVerification && unverified > 0 {
		report.Issues = append(report.Issues, types.ValidationIssue{
			Severity: "warning",
			Category: "citation",
			Message:  fmt.Sprintf("%d of %d sources could not be verified against a registry", unverified, report.TotalSources),
		})
		report.Recommendations = append(report.Recommendations,
			"Manually confirm unverified sources before citing them.")
	}

	if n := report.TotalClaims - report.VerifiableClaims; n > 0 {
		report.Issues = append(report.Issues, types.ValidationIssue{
			Severity: "info",
			Category: "claim",
			Message:  fmt.Sprintf("%d of %d numeric claims lack a registered identifier", n, report.TotalClaims),
		})
	}

	if a.cfg.EnablePDFResolution && report.OpenAccessSources == 0 {
		report.Issues = append(report.Issues, types.ValidationIssue{
			Severity: "info",
			Category: "open_access",
			Message:  "no free full-text copies were located",
		})
	}

	if report.OverallGrade == types.GradeD || report.OverallGrade == types.GradeF {
		report.Recommendations = append(report.Recommendations,
			"Overall evidence is weak; broaden the search or relax the year filter.")
	}
}
