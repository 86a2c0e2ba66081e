// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"testing"

	"github.com/pdiddy/research-mentor/pkg/types"
)

func sampleReport() *types.ResearchReport {
	return &types.ResearchReport{
		Topic:   "efficient transformers",
		Summary: "Attention costs dominate.",
		KeyThemes: []string{
			"sparsity",
			"distillation",
		},
		Sources: []types.SourceSummary{
			{
				Title:       "Sparse Attention",
				Source:      "arxiv",
				Summary:     "Introduces block-sparse kernels.",
				KeyFindings: []string{"90% cost reduction"},
				Year:        2023,
				Authors:     []string{"A. One", "B. Two", "C. Three", "D. Four"},
				URL:         "https://arxiv.org/abs/2301.1",
				DOI:         "10.1/sa",
			},
			{
				Title:   "Survey of Transformers",
				Source:  "openalex",
				Summary: "Covers the design space.",
				Year:    2022,
			},
		},
		GapAnalysis:      "Little work on long-context evaluation.",
		FutureDirections: []string{"unified benchmarks"},
		Metadata: map[string]string{
			"depth": "standard",
			"model": "test-model",
		},
	}
}

func TestRenderMarkdownSectionOrder(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	sections := []string{
		"# Research Report: efficient transformers",
		"## Executive Summary",
		"## Key Themes",
		"## Literature Review",
		"## Gap Analysis",
		"## Future Directions",
		"## References",
		"---",
	}
	pos := -1
	for _, s := range sections {
		idx := strings.Index(md, s)
		if idx < 0 {
			t.Fatalf("section %q missing from report", s)
		}
		if idx < pos {
			t.Errorf("section %q appears out of order", s)
		}
		pos = idx
	}
}

func TestRenderMarkdownGroupsByProvider(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	if !strings.Contains(md, "### arXiv") {
		t.Error("arXiv group heading missing")
	}
	if !strings.Contains(md, "### OpenAlex") {
		t.Error("OpenAlex group heading missing")
	}
	if !strings.Contains(md, "**Sparse Attention** (2023)") {
		t.Error("source entry with year missing")
	}
	if !strings.Contains(md, "- 90% cost reduction") {
		t.Error("key findings missing")
	}
}

func TestRenderMarkdownReferences(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	if !strings.Contains(md, "1. Sparse Attention. A. One, B. Two, C. Three, et al. (2023)") {
		t.Error("reference should truncate authors past three")
	}
	if !strings.Contains(md, "doi:10.1/sa") {
		t.Error("reference should carry the DOI")
	}
	if !strings.Contains(md, "2. Survey of Transformers") {
		t.Error("references keep report order")
	}
}

func TestRenderMarkdownOptionalSectionsOmitted(t *testing.T) {
	report := sampleReport()
	report.KeyThemes = nil
	report.GapAnalysis = ""
	report.FutureDirections = nil
	md := RenderMarkdown(report)

	for _, absent := range []string{"## Key Themes", "## Gap Analysis", "## Future Directions"} {
		if strings.Contains(md, absent) {
			t.Errorf("empty section %q should be omitted", absent)
		}
	}
	// Required sections stay.
	for _, present := range []string{"## Executive Summary", "## Literature Review", "## References"} {
		if !strings.Contains(md, present) {
			t.Errorf("section %q must always render", present)
		}
	}
}

func TestRenderMarkdownMetadataFooter(t *testing.T) {
	md := RenderMarkdown(sampleReport())
	if !strings.Contains(md, "*depth: standard*") {
		t.Error("metadata footer missing depth")
	}
	if !strings.Contains(md, "*model: test-model*") {
		t.Error("metadata footer missing model")
	}
}

func TestRenderMarkdownNoSources(t *testing.T) {
	report := &types.ResearchReport{Topic: "t", Summary: "nothing found"}
	md := RenderMarkdown(report)
	if !strings.Contains(md, "No sources were found.") {
		t.Error("empty literature review should say so")
	}
}
