// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package litreview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// RenderValidatedMarkdown renders a validated report. The document keeps
// the base report's section order and appends the validation layers:
// Source Validation, Extracted Claims, Similar Papers, and Validation
// Issues, followed by a metadata footer.
func RenderValidatedMarkdown(report *types.ValidatedReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validated Research Report: %s\n\n", report.Topic)
	fmt.Fprintf(&b, "**Overall Evidence Grade: %s** (score %.2f)\n\n", report.OverallGrade, report.OverallScore)

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(report.Summary)
	b.WriteString("\n\n")

	if len(report.KeyThemes) > 0 {
		b.WriteString("## Key Themes\n\n")
		for _, theme := range report.KeyThemes {
			fmt.Fprintf(&b, "- %s\n", theme)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Source Validation\n\n")
	writeSourceTable(&b, report.Sources)

	if len(report.Claims) > 0 {
		b.WriteString("## Extracted Claims\n\n")
		for _, c := range report.Claims {
			fmt.Fprintf(&b, "- %s (%s, grade %s", c.Text, c.MetricName, c.EvidenceGrade)
			if c.SourceTitle != "" {
				fmt.Fprintf(&b, ", from %q", c.SourceTitle)
			}
			b.WriteString(")\n")
		}
		b.WriteString("\n")
	}

	if report.GapAnalysis != "" {
		b.WriteString("## Gap Analysis\n\n")
		b.WriteString(report.GapAnalysis)
		b.WriteString("\n\n")
	}

	if len(report.FutureDirections) > 0 {
		b.WriteString("## Future Directions\n\n")
		for _, dir := range report.FutureDirections {
			fmt.Fprintf(&b, "- %s\n", dir)
		}
		b.WriteString("\n")
	}

	if len(report.SimilarPapers) > 0 {
		b.WriteString("## Similar Papers\n\n")
		for _, p := range report.SimilarPapers {
			fmt.Fprintf(&b, "- %s", p.Title)
			if p.Year > 0 {
				fmt.Fprintf(&b, " (%d)", p.Year)
			}
			if p.URL != "" {
				fmt.Fprintf(&b, " — %s", p.URL)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.Issues) > 0 {
		b.WriteString("## Validation Issues\n\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", issue.Severity, issue.Category, issue.Message)
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	writeValidatedFooter(&b, report)
	return b.String()
}

// writeSourceTable renders the per-source verification and grading
// results as a markdown table.
func writeSourceTable(b *strings.Builder, sources []types.ValidatedSource) {
	if len(sources) == 0 {
		b.WriteString("No sources were found.\n\n")
		return
	}

	b.WriteString("| Source | Status | Grade | Open Access |\n")
	b.WriteString("|--------|--------|-------|-------------|\n")
	for _, s := range sources {
		title := s.Title
		if s.HTMLURL != "" {
			title = fmt.Sprintf("[%s](%s)", s.Title, s.HTMLURL)
		} else if s.URL != "" {
			title = fmt.Sprintf("[%s](%s)", s.Title, s.URL)
		}
		oa := "no"
		if s.OpenAccess {
			oa = "yes"
			if s.OAStatus != "" {
				oa = s.OAStatus
			}
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", title, s.VerificationStatus, s.EvidenceGrade, oa)
	}
	b.WriteString("\n")
}

func writeValidatedFooter(b *strings.Builder, report *types.ValidatedReport) {
	b.WriteString("---\n\n")
	fmt.Fprintf(b, "*query id: %s*  \n", report.QueryID)
	fmt.Fprintf(b, "*generated: %s*  \n", report.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(b, "*verified sources: %d/%d*  \n", report.VerifiedSources, report.TotalSources)
	fmt.Fprintf(b, "*verifiable claims: %d/%d*  \n", report.VerifiableClaims, report.TotalClaims)

	if len(report.ProviderStats) > 0 {
		names := make([]string, 0, len(report.ProviderStats))
		for name := range report.ProviderStats {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s %d", name, report.ProviderStats[name]))
		}
		fmt.Fprintf(b, "*providers: %s*  \n", strings.Join(parts, ", "))
	}
}
