// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-mentor/internal/research"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Run deep research: search, summarize, and synthesize",
	Long: `Research plans sub-queries for a topic, searches every provider,
deduplicates the results, summarizes the top papers with an LLM, and
synthesizes a markdown report with key themes, a literature review, a gap
analysis, and future directions.

Depth presets: shallow (5 papers, no gap analysis), standard (15 papers),
deep (30 papers, year filter widened to 2018).`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("depth", "standard", "research depth: shallow, standard, or deep")
	researchCmd.Flags().String("model", "", "chat model override")
	researchCmd.Flags().String("output", "", "write the markdown report to this file instead of stdout")
	researchCmd.Flags().Bool("json", false, "output the full report as JSON")
	researchCmd.Flags().Int("limit", 0, "maximum results per provider")
	researchCmd.Flags().Int("from-year", 0, "skip papers published before this year")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a research topic")
	}
	topic := strings.Join(args, " ")

	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}
	registry := buildRegistry(providerConfig(cmd))
	agent := research.NewAgent(client, registry, researchConfig(cmd), log)

	report, err := agent.Research(context.Background(), topic)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, []byte(report.Markdown), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written to %s\n", output)
		return nil
	}

	fmt.Print(report.Markdown)
	return nil
}
