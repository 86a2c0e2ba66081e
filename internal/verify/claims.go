// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// Confidence heuristic: every extracted claim starts at the base, then
// gains for each registered identifier on the linked paper. The sum is
// deliberately not clamped.
const (
	claimBaseConfidence = 0.5
	claimDOIBonus       = 0.3
	claimArxivBonus     = 0.25
	claimContextRadius  = 100
)

// claimPattern pairs a compiled regex with the claim type it detects.
// Each pattern captures the numeric value in group 1 and, when present,
// the unit in group 2.
type claimPattern struct {
	re        *regexp.Regexp
	claimType types.ClaimType
	metric    string
	unit      string
}

var claimPatterns = []claimPattern{
	{
		re:        regexp.MustCompile(`(?i)\b(?:accuracy|precision|recall|f1(?:[ -]score)?|auc|map|miou)\s*(?:of|:|=|is|was|at|reach(?:es|ed)?|achiev(?:es|ed|ing)?)?\s*(\d+(?:\.\d+)?)\s*(%|percent)`),
		claimType: types.ClaimAccuracy,
		metric:    "accuracy",
		unit:      "%",
	},
	{
		re:        regexp.MustCompile(`(?i)\b(?:latency|inference(?:\s+time)?|runtime|response\s+time)\s*(?:of|:|=|is|was|under|below)?\s*(\d+(?:\.\d+)?)\s*(ms|milliseconds?|s|seconds?)`),
		claimType: types.ClaimPerformance,
		metric:    "latency",
	},
	{
		re:        regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(fps|frames\s+per\s+second)`),
		claimType: types.ClaimPerformance,
		metric:    "throughput",
		unit:      "FPS",
	},
	{
		re:        regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:x|times)\s*(?:faster|speedup|speed-up|improvement|better|smaller|fewer)`),
		claimType: types.ClaimImprovement,
		metric:    "speedup",
		unit:      "x",
	},
	{
		re:        regexp.MustCompile(`(?i)\b(?:improv(?:es|ed|ement)|reduc(?:es|ed|tion)|gain(?:s|ed)?|outperform(?:s|ed)?(?:\s+\S+){0,3}?)\s*(?:of|by)\s*(\d+(?:\.\d+)?)\s*(%|percent)`),
		claimType: types.ClaimImprovement,
		metric:    "improvement",
		unit:      "%",
	},
}

// Paper carries the identifiers the extractor uses for confidence and
// claim-to-source linkage.
type Paper struct {
	Title   string
	DOI     string
	ArxivID string
}

// ExtractClaims scans free text for numeric research claims and scores
// each one against the paper's identifiers.
func ExtractClaims(text string, paper Paper) []types.ExtractedClaim {
	var claims []types.ExtractedClaim
	seen := make(map[string]bool)

	for _, p := range claimPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			matched := text[loc[0]:loc[1]]
			if seen[matched] {
				continue
			}
			seen[matched] = true

			value, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
			if err != nil {
				continue
			}

			unit := p.unit
			if unit == "" && len(loc) >= 6 && loc[4] >= 0 {
				unit = inferUnit(text[loc[4]:loc[5]])
			}

			confidence := claimBaseConfidence
			if paper.DOI != "" {
				confidence += claimDOIBonus
			}
			if paper.ArxivID != "" {
				confidence += claimArxivBonus
			}

			claims = append(claims, types.ExtractedClaim{
				Text:         matched,
				Value:        value,
				Unit:         unit,
				Type:         p.claimType,
				MetricName:   p.metric,
				Context:      contextAround(text, loc[0], loc[1]),
				PaperTitle:   paper.Title,
				PaperDOI:     paper.DOI,
				PaperArxivID: paper.ArxivID,
				Confidence:   confidence,
				Verifiable:   paper.DOI != "" || paper.ArxivID != "",
			})
		}
	}
	return claims
}

// ValidateClaim sanity-checks a single claim's value against its type.
func ValidateClaim(claim types.ExtractedClaim) types.ClaimValidation {
	v := types.ClaimValidation{Valid: true}

	switch claim.Type {
	case types.ClaimAccuracy:
		if claim.Value < 0 || claim.Value > 100 {
			v.Valid = false
			v.Issues = append(v.Issues,
				fmt.Sprintf("accuracy %.2f%% is outside [0, 100]", claim.Value))
		}
	case types.ClaimPerformance, types.ClaimImprovement:
		if claim.Value < 0 {
			v.Valid = false
			v.Issues = append(v.Issues,
				fmt.Sprintf("negative %s value %.2f", claim.MetricName, claim.Value))
		}
	}

	if !claim.Verifiable {
		v.Warnings = append(v.Warnings,
			"claim has no DOI or arXiv identifier to verify against")
	}
	return v
}

// inferUnit normalizes a captured unit string.
func inferUnit(raw string) string {
	switch u := strings.ToLower(strings.TrimSpace(raw)); u {
	case "%", "percent":
		return "%"
	case "ms", "millisecond", "milliseconds":
		return "ms"
	case "s", "second", "seconds":
		return "s"
	case "fps":
		return "FPS"
	case "x", "times":
		return "x"
	default:
		return raw
	}
}

// contextAround returns the text surrounding a match, claimContextRadius
// characters on each side.
func contextAround(text string, start, end int) string {
	lo := start - claimContextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + claimContextRadius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(text[lo:hi])
}
