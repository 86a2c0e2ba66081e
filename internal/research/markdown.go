// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// RenderMarkdown renders a report document with a fixed section order:
// Executive Summary, Key Themes, Literature Review grouped by source,
// Gap Analysis, Future Directions, References, and a metadata footer.
// Empty optional sections (themes, gaps, directions) are omitted; the
// ordering of whatever remains never changes.
func RenderMarkdown(report *types.ResearchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report: %s\n\n", report.Topic)

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

	b.WriteString("## Literature Review\n\n")
	writeLiteratureReview(&b, report.Sources)

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

	b.WriteString("## References\n\n")
	for i, s := range report.Sources {
		b.WriteString(formatReference(i+1, s))
	}
	b.WriteString("\n")

	writeFooter(&b, report.Metadata)
	return b.String()
}

// writeLiteratureReview groups sources by the provider that found them,
// providers sorted alphabetically, sources in report order.
func writeLiteratureReview(b *strings.Builder, sources []types.SourceSummary) {
	if len(sources) == 0 {
		b.WriteString("No sources were found.\n\n")
		return
	}

	groups := make(map[string][]types.SourceSummary)
	var names []string
	for _, s := range sources {
		name := primarySource(s.Source)
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], s)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(b, "### %s\n\n", sourceHeading(name))
		for _, s := range groups[name] {
			fmt.Fprintf(b, "**%s**", s.Title)
			if s.Year > 0 {
				fmt.Fprintf(b, " (%d)", s.Year)
			}
			b.WriteString("\n\n")
			fmt.Fprintf(b, "%s\n\n", s.Summary)
			for _, finding := range s.KeyFindings {
				fmt.Fprintf(b, "- %s\n", finding)
			}
			if len(s.KeyFindings) > 0 {
				b.WriteString("\n")
			}
		}
	}
}

func formatReference(n int, s types.SourceSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", n, s.Title)
	if len(s.Authors) > 0 {
		authors := s.Authors
		if len(authors) > 3 {
			authors = append(authors[:3:3], "et al.")
		}
		fmt.Fprintf(&b, ". %s", strings.Join(authors, ", "))
	}
	if s.Year > 0 {
		fmt.Fprintf(&b, " (%d)", s.Year)
	}
	if s.Venue != "" {
		fmt.Fprintf(&b, ". %s", s.Venue)
	}
	if s.DOI != "" {
		fmt.Fprintf(&b, ". doi:%s", s.DOI)
	}
	if s.URL != "" {
		fmt.Fprintf(&b, ". %s", s.URL)
	}
	b.WriteString("\n")
	return b.String()
}

func writeFooter(b *strings.Builder, metadata map[string]string) {
	b.WriteString("---\n\n")
	if len(metadata) == 0 {
		return
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "*%s: %s*  \n", strings.ReplaceAll(k, "_", " "), metadata[k])
	}
}

// primarySource returns the first provider of a merged source string
// like "arxiv+openalex".
func primarySource(source string) string {
	if idx := strings.IndexByte(source, '+'); idx > 0 {
		return source[:idx]
	}
	if source == "" {
		return "other"
	}
	return source
}

// sourceHeading maps provider identifiers to display names.
func sourceHeading(name string) string {
	switch name {
	case "arxiv":
		return "arXiv"
	case "openreview":
		return "OpenReview"
	case "pubmed":
		return "PubMed"
	case "hal":
		return "HAL"
	case "zenodo":
		return "Zenodo"
	case "openalex":
		return "OpenAlex"
	default:
		return name
	}
}
