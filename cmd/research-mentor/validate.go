// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-mentor/internal/archive"
	"github.com/pdiddy/research-mentor/internal/litreview"
	"github.com/pdiddy/research-mentor/internal/research"
	"github.com/pdiddy/research-mentor/internal/verify"
	"github.com/pdiddy/research-mentor/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [topic]",
	Short: "Run validated research: verify citations and grade evidence",
	Long: `Validate runs the deep-research workflow and then checks what came back:
citations are verified against arXiv and CrossRef, numeric claims are
extracted and linked to their sources, every source gets an evidence grade,
open-access links are resolved, and similar papers are recommended.

Use --save to persist the report in the local archive.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("depth", "standard", "research depth: shallow, standard, or deep")
	validateCmd.Flags().String("model", "", "chat model override")
	validateCmd.Flags().String("output", "", "write the markdown report to this file instead of stdout")
	validateCmd.Flags().Bool("json", false, "output the full report as JSON")
	validateCmd.Flags().Int("limit", 0, "maximum results per provider")
	validateCmd.Flags().Int("from-year", 0, "skip papers published before this year")
	validateCmd.Flags().Bool("no-verify", false, "skip citation verification")
	validateCmd.Flags().Bool("no-pdf", false, "skip open-access link resolution")
	validateCmd.Flags().Bool("no-recommend", false, "skip similar-paper recommendations")
	validateCmd.Flags().Bool("save", false, "persist the report in the archive")
	validateCmd.Flags().String("archive-dir", "archive", "directory for the archive database")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a research topic")
	}
	topic := strings.Join(args, " ")

	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}
	pcfg := providerConfig(cmd)
	registry := buildRegistry(pcfg)
	researcher := research.NewAgent(client, registry, researchConfig(cmd), log)

	noVerify, _ := cmd.Flags().GetBool("no-verify")
	noPDF, _ := cmd.Flags().GetBool("no-pdf")
	noRecommend, _ := cmd.Flags().GetBool("no-recommend")
	vcfg := types.ValidationConfig{
		EnableVerification:    !noVerify,
		EnablePDFResolution:   !noPDF,
		EnableRecommendations: !noRecommend,
	}

	httpClient := &http.Client{Timeout: pcfg.Timeout}
	var (
		verifier    *verify.Verifier
		resolver    *litreview.Resolver
		recommender *litreview.Recommender
	)
	if vcfg.EnableVerification {
		verifier = verify.NewVerifier(httpClient, pcfg.UserAgent, log)
	}
	if vcfg.EnablePDFResolution {
		resolver = litreview.NewResolver(httpClient, pcfg.UserAgent, pcfg.UnpaywallEmail, pcfg.OpenAlexEmail, log)
	}
	if vcfg.EnableRecommendations {
		recommender = litreview.NewRecommender(httpClient, pcfg.UserAgent, pcfg.OpenAlexEmail, vcfg.MaxSimilarPapers, log)
	}

	agent := litreview.NewAgent(researcher, verifier, resolver, recommender, vcfg, log)
	report, err := agent.Research(context.Background(), topic)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		dir, _ := cmd.Flags().GetString("archive-dir")
		store, err := archive.NewStore(types.ArchiveConfig{Dir: dir})
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReport(context.Background(), report); err != nil {
			return err
		}
		log.Info().Str("id", report.QueryID).Msg("report archived")
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
