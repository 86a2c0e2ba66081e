// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-mentor/internal/provider"
	"github.com/pdiddy/research-mentor/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search academic APIs for candidate papers",
	Long: `Search queries every registered provider (arXiv, OpenReview, PubMed, HAL,
Zenodo, OpenAlex, Semantic Scholar) for papers matching a research question. Results are
deduplicated across sources and ranked by relevance. A provider that fails
is skipped with a warning rather than failing the whole search.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum results per provider (default 10)")
	searchCmd.Flags().Int("from-year", 0, "skip papers published before this year")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("yaml", false, "output results as YAML")
	searchCmd.Flags().String("save", "", "save the query and results to this YAML file")
	searchCmd.Flags().String("load", "", "print a previously saved query file instead of searching")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	var (
		results    []types.SearchResult
		byProvider map[string][]types.SearchResult
		query      string
		opts       provider.SearchOptions
	)

	if load, _ := cmd.Flags().GetString("load"); load != "" {
		qf, err := provider.ReadQueryFile(load)
		if err != nil {
			return err
		}
		results = qf.Results
	} else {
		if len(args) == 0 {
			return fmt.Errorf("provide a search query")
		}
		query = strings.Join(args, " ")

		cfg := providerConfig(cmd)
		registry := buildRegistry(cfg)
		opts = provider.SearchOptions{
			Limit:    cfg.LimitPerProvider,
			FromYear: cfg.FromYear,
		}

		var err error
		byProvider, err = registry.SearchAll(context.Background(), query, opts)
		if err != nil {
			return err
		}
		results = provider.Merge(byProvider)
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := provider.WriteQueryFile(save, query, opts, byProvider, results); err != nil {
			return err
		}
		fmt.Printf("Saved query to %s\n", save)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case yamlOutput:
		return yaml.NewEncoder(os.Stdout).Encode(results)
	default:
		printSearchTable(results)
		return nil
	}
}

// truncate shortens s to max runes with an ellipsis, never splitting a
// multibyte character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func printSearchTable(results []types.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-60s  %-10s  %-6s  %s\n",
		"Rank", "Title", "Source", "Year", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))

	for i, r := range results {
		title := truncate(r.Title, 60)
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-60s  %-10s  %-6s  %.2f\n",
			i+1, title, r.Source, year, r.RelevanceScore)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
}
