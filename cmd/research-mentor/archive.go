// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-mentor/internal/archive"
	"github.com/pdiddy/research-mentor/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse archived research reports",
	Long: `Archive manages the local SQLite store of validated reports. Use
subcommands to list saved reports, show one, or search across every
archived source with full-text queries.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Show an archived report",
	Long: `Show prints an archived report's markdown, or the full JSON with --json.
A unique prefix of the report ID is enough.`,
	RunE: runArchiveShow,
}

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search across archived sources",
	RunE:  runArchiveSearch,
}

func init() {
	archiveCmd.PersistentFlags().String("archive-dir", "archive", "directory for the archive database")
	archiveCmd.PersistentFlags().Int("max-results", 20, "maximum number of results")

	archiveShowCmd.Flags().Bool("json", false, "output the full report as JSON")
	archiveSearchCmd.Flags().Bool("json", false, "output hits as JSON")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveSearchCmd)

	rootCmd.AddCommand(archiveCmd)
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	dir, _ := cmd.Flags().GetString("archive-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return archive.NewStore(types.ArchiveConfig{Dir: dir, MaxResults: maxResults})
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.ListReports(context.Background())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No archived reports.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-38s  %-40s  %-5s  %-8s  %s\n",
		"ID", "Topic", "Grade", "Sources", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, info := range infos {
		topic := truncate(info.Topic, 40)
		fmt.Fprintf(os.Stdout, "%-38s  %-40s  %-5s  %-8d  %s\n",
			info.ID, topic, info.Grade, info.Sources, info.Created.Format("2006-01-02 15:04"))
	}
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide a report id")
	}

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.GetReport(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Print(report.Markdown)
	return nil
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.SearchSources(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, hit := range hits {
		fmt.Fprintf(os.Stdout, "%s (%s)\n", hit.Title, hit.Grade)
		if hit.Summary != "" {
			fmt.Fprintf(os.Stdout, "  %s\n", hit.Summary)
		}
		fmt.Fprintf(os.Stdout, "  report %s: %s\n\n", hit.ReportID, hit.Topic)
	}
	return nil
}
