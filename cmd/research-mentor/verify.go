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
	"github.com/pdiddy/research-mentor/internal/verify"
	"github.com/pdiddy/research-mentor/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [title]",
	Short: "Verify a single citation against arXiv and CrossRef",
	Long: `Verify checks whether a claimed citation exists: arXiv is queried first,
then CrossRef, and a match is accepted when the titles are similar enough.
Verified lookups are cached in the archive database so repeated runs do not
hit the registries again.

With --arxiv-id the lookup is an exact identifier match instead.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("author", "", "claimed first author")
	verifyCmd.Flags().Int("year", 0, "claimed publication year")
	verifyCmd.Flags().String("arxiv-id", "", "verify by arXiv identifier instead of title")
	verifyCmd.Flags().String("archive-dir", "archive", "directory for the citation cache database")
	verifyCmd.Flags().Bool("no-cache", false, "skip the cross-run citation cache")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	arxivID, _ := cmd.Flags().GetString("arxiv-id")
	if len(args) == 0 && arxivID == "" {
		return fmt.Errorf("provide a citation title or --arxiv-id")
	}
	title := strings.Join(args, " ")

	ctx := context.Background()
	verifier := verify.NewVerifier(&http.Client{Timeout: defaultTimeout}, defaultUserAgent, log)

	if arxivID != "" {
		return printCitation(verifier.VerifyArxivID(ctx, arxivID))
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	var store *archive.Store
	if !noCache {
		dir, _ := cmd.Flags().GetString("archive-dir")
		s, err := archive.NewStore(types.ArchiveConfig{Dir: dir})
		if err != nil {
			log.Warn().Err(err).Msg("citation cache unavailable")
		} else {
			store = s
			defer store.Close()
			if cite, ok, err := store.GetCitation(ctx, title); err == nil && ok {
				log.Debug().Str("title", title).Msg("citation cache hit")
				return printCitation(cite)
			}
		}
	}

	var authors []string
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		authors = []string{author}
	}
	year, _ := cmd.Flags().GetInt("year")

	cite := verifier.Verify(ctx, title, authors, year)
	if store != nil {
		if err := store.PutCitation(ctx, cite); err != nil {
			log.Warn().Err(err).Msg("caching citation failed")
		}
	}
	return printCitation(cite)
}

func printCitation(cite types.VerifiedCitation) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cite)
}
