// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/research-mentor/pkg/types"
)

func TestExtractClaimsAccuracy(t *testing.T) {
	text := "Our model achieves accuracy of 94.2% on ImageNet, beating the baseline."
	claims := ExtractClaims(text, Paper{Title: "Model Paper"})

	if len(claims) != 1 {
		t.Fatalf("len(claims) = %d, want 1", len(claims))
	}
	c := claims[0]
	if c.Type != types.ClaimAccuracy {
		t.Errorf("Type = %q", c.Type)
	}
	if c.Value != 94.2 {
		t.Errorf("Value = %f", c.Value)
	}
	if c.Unit != "%" {
		t.Errorf("Unit = %q", c.Unit)
	}
	if !strings.Contains(c.Context, "ImageNet") {
		t.Errorf("Context = %q, want surrounding text included", c.Context)
	}
	if c.PaperTitle != "Model Paper" {
		t.Errorf("PaperTitle = %q", c.PaperTitle)
	}
}

func TestExtractClaimsPerformanceAndImprovement(t *testing.T) {
	text := "Inference latency is 12.5 ms per frame (80 FPS), a 3x speedup over the prior system, " +
		"and we report an improvement of 7% in recall."
	claims := ExtractClaims(text, Paper{})

	byType := map[types.ClaimType]int{}
	for _, c := range claims {
		byType[c.Type]++
	}
	if byType[types.ClaimPerformance] != 2 {
		t.Errorf("performance claims = %d, want latency and FPS", byType[types.ClaimPerformance])
	}
	if byType[types.ClaimImprovement] != 2 {
		t.Errorf("improvement claims = %d, want speedup and percent gain", byType[types.ClaimImprovement])
	}

	for _, c := range claims {
		switch c.MetricName {
		case "latency":
			if c.Value != 12.5 || c.Unit != "ms" {
				t.Errorf("latency claim = %+v", c)
			}
		case "throughput":
			if c.Value != 80 || c.Unit != "FPS" {
				t.Errorf("throughput claim = %+v", c)
			}
		case "speedup":
			if c.Value != 3 || c.Unit != "x" {
				t.Errorf("speedup claim = %+v", c)
			}
		}
	}
}

func TestExtractClaimsConfidenceHeuristic(t *testing.T) {
	text := "accuracy of 90%"
	tests := []struct {
		name  string
		paper Paper
		want  float64
	}{
		{"no identifiers", Paper{}, 0.5},
		{"doi only", Paper{DOI: "10.1/x"}, 0.8},
		{"arxiv only", Paper{ArxivID: "2301.00001"}, 0.75},
		// Both bonuses stack without a clamp.
		{"doi and arxiv", Paper{DOI: "10.1/x", ArxivID: "2301.00001"}, 1.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := ExtractClaims(text, tt.paper)
			if len(claims) != 1 {
				t.Fatalf("len(claims) = %d", len(claims))
			}
			if math.Abs(claims[0].Confidence-tt.want) > 1e-9 {
				t.Errorf("Confidence = %f, want %f", claims[0].Confidence, tt.want)
			}
			wantVerifiable := tt.paper.DOI != "" || tt.paper.ArxivID != ""
			if claims[0].Verifiable != wantVerifiable {
				t.Errorf("Verifiable = %v, want %v", claims[0].Verifiable, wantVerifiable)
			}
		})
	}
}

func TestExtractClaimsNoMatches(t *testing.T) {
	claims := ExtractClaims("This paper surveys prior work without reporting numbers.", Paper{})
	if len(claims) != 0 {
		t.Errorf("claims = %v, want none", claims)
	}
}

func TestValidateClaim(t *testing.T) {
	tests := []struct {
		name      string
		claim     types.ExtractedClaim
		wantValid bool
		wantWarn  bool
	}{
		{
			"valid accuracy",
			types.ExtractedClaim{Type: types.ClaimAccuracy, Value: 94.2, Verifiable: true},
			true, false,
		},
		{
			"accuracy above 100",
			types.ExtractedClaim{Type: types.ClaimAccuracy, Value: 120, Verifiable: true},
			false, false,
		},
		{
			"unverifiable claim warns",
			types.ExtractedClaim{Type: types.ClaimAccuracy, Value: 80},
			true, true,
		},
		{
			"negative latency",
			types.ExtractedClaim{Type: types.ClaimPerformance, MetricName: "latency", Value: -5, Verifiable: true},
			false, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateClaim(tt.claim)
			if v.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (issues: %v)", v.Valid, tt.wantValid, v.Issues)
			}
			if (len(v.Warnings) > 0) != tt.wantWarn {
				t.Errorf("Warnings = %v, wantWarn %v", v.Warnings, tt.wantWarn)
			}
		})
	}
}
