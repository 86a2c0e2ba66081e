// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// Deduplicate collapses results that refer to the same paper, keeping
// exactly one representative per identifier. Identity is checked in
// strength order: DOI, then arXiv ID, then URL, then normalized title.
// Duplicate fields are merged into the surviving representative. Returns
// the deduplicated slice and how many duplicates were removed.
func Deduplicate(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]int) // dedup key → index in out
	var out []types.SearchResult
	removed := 0

	for _, r := range results {
		keys := dedupKeys(r)
		idx := -1
		for _, k := range keys {
			if i, ok := seen[k]; ok {
				idx = i
				break
			}
		}

		if idx >= 0 {
			mergeInto(&out[idx], r)
			removed++
		} else {
			out = append(out, r)
			idx = len(out) - 1
		}

		// Register every alias so a later duplicate carrying only a
		// weaker identifier still collapses into this representative.
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = idx
			}
		}
	}
	return out, removed
}

// dedupKeys lists a result's identity keys, strongest first.
func dedupKeys(r types.SearchResult) []string {
	var keys []string
	if r.DOI != "" {
		keys = append(keys, "doi:"+strings.ToLower(r.DOI))
	}
	if r.ArxivID != "" {
		keys = append(keys, "arxiv:"+r.ArxivID)
	}
	if r.URL != "" {
		keys = append(keys, "url:"+r.URL)
	}
	if t := normalizeTitle(r.Title); t != "" {
		keys = append(keys, "title:"+t)
	}
	return keys
}

// mergeInto folds a duplicate into the kept representative: missing
// fields are filled in and the better score and citation count win.
func mergeInto(dst *types.SearchResult, src types.SearchResult) {
	if dst.Abstract == "" {
		dst.Abstract = src.Abstract
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.ArxivID == "" {
		dst.ArxivID = src.ArxivID
	}
	if dst.PMCID == "" {
		dst.PMCID = src.PMCID
	}
	if dst.PDFURL == "" {
		dst.PDFURL = src.PDFURL
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
	if src.Citations > dst.Citations {
		dst.Citations = src.Citations
	}
	if src.RelevanceScore > dst.RelevanceScore {
		dst.RelevanceScore = src.RelevanceScore
	}
	if src.Source != "" && src.Source != dst.Source && !strings.Contains(dst.Source, src.Source) {
		dst.Source += "+" + src.Source
	}
}

// normalizeTitle lowercases a title and strips everything but letters,
// digits, and single spaces.
func normalizeTitle(title string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
