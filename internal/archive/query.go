// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// ReportInfo is one row of the archive listing.
type ReportInfo struct {
	ID      string              `json:"id" yaml:"id"`
	Topic   string              `json:"topic" yaml:"topic"`
	Grade   types.EvidenceGrade `json:"grade" yaml:"grade"`
	Score   float64             `json:"score" yaml:"score"`
	Created time.Time           `json:"created" yaml:"created"`
	Sources int                 `json:"sources" yaml:"sources"`
}

// ListReports returns archived reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]ReportInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.grade, r.score, r.created,
			(SELECT count(*) FROM sources WHERE report_id = r.id)
		 FROM reports r
		 ORDER BY r.created DESC
		 LIMIT ?`, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var infos []ReportInfo
	for rows.Next() {
		var (
			info    ReportInfo
			grade   string
			created string
		)
		if err := rows.Scan(&info.ID, &info.Topic, &grade, &info.Score, &created, &info.Sources); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		info.Grade = types.EvidenceGrade(grade)
		info.Created, _ = time.Parse(time.RFC3339, created)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetReport loads an archived report by query ID. A unique ID prefix is
// accepted, so CLI users can pass the first few characters.
func (s *Store) GetReport(ctx context.Context, id string) (*types.ValidatedReport, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM reports WHERE id = ?`, id,
	).Scan(&body)
	if err == sql.ErrNoRows {
		rows, qerr := s.db.QueryContext(ctx,
			`SELECT body FROM reports WHERE id LIKE ? LIMIT 2`, id+"%")
		if qerr != nil {
			return nil, fmt.Errorf("looking up report: %w", qerr)
		}
		defer rows.Close()

		var bodies []string
		for rows.Next() {
			var b string
			if err := rows.Scan(&b); err != nil {
				return nil, fmt.Errorf("scanning row: %w", err)
			}
			bodies = append(bodies, b)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		switch len(bodies) {
		case 0:
			return nil, fmt.Errorf("report %s not found", id)
		case 1:
			body = bodies[0]
		default:
			return nil, fmt.Errorf("report id %s is ambiguous", id)
		}
	} else if err != nil {
		return nil, fmt.Errorf("looking up report: %w", err)
	}

	var report types.ValidatedReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("parsing stored report: %w", err)
	}
	return &report, nil
}

// SourceHit is one full-text match across archived sources.
type SourceHit struct {
	ReportID string              `json:"report_id" yaml:"report_id"`
	Topic    string              `json:"topic" yaml:"topic"`
	Title    string              `json:"title" yaml:"title"`
	Year     int                 `json:"year,omitempty" yaml:"year,omitempty"`
	DOI      string              `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL      string              `json:"url,omitempty" yaml:"url,omitempty"`
	Grade    types.EvidenceGrade `json:"grade" yaml:"grade"`
	Summary  string              `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// SearchSources runs a full-text query over archived source titles and
// summaries, ranked by relevance.
func (s *Store) SearchSources(ctx context.Context, query string) ([]SourceHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT src.report_id, r.topic, src.title, src.year, src.doi, src.url, src.grade, src.summary
		 FROM sources_fts
		 JOIN sources src ON src.rowid = sources_fts.rowid
		 JOIN reports r ON src.report_id = r.id
		 WHERE sources_fts MATCH ?
		 ORDER BY sources_fts.rank
		 LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var hits []SourceHit
	for rows.Next() {
		var (
			hit   SourceHit
			grade string
		)
		if err := rows.Scan(&hit.ReportID, &hit.Topic, &hit.Title, &hit.Year,
			&hit.DOI, &hit.URL, &grade, &hit.Summary); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		hit.Grade = types.EvidenceGrade(grade)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// PutCitation caches a verified citation across runs, keyed by the
// lowercased claimed title.
func (s *Store) PutCitation(ctx context.Context, cite types.VerifiedCitation) error {
	if cite.OriginalTitle == "" {
		return fmt.Errorf("citation has no title")
	}

	body, err := json.Marshal(cite)
	if err != nil {
		return fmt.Errorf("marshaling citation: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO citations (title_key, body, created) VALUES (?, ?, ?)
		 ON CONFLICT(title_key) DO UPDATE SET body=excluded.body, created=excluded.created`,
		citationKey(cite.OriginalTitle), string(body), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting citation: %w", err)
	}
	return nil
}

// GetCitation returns a cached citation by claimed title, or false when
// none is cached.
func (s *Store) GetCitation(ctx context.Context, title string) (types.VerifiedCitation, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM citations WHERE title_key = ?`, citationKey(title),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return types.VerifiedCitation{}, false, nil
	}
	if err != nil {
		return types.VerifiedCitation{}, false, fmt.Errorf("looking up citation: %w", err)
	}

	var cite types.VerifiedCitation
	if err := json.Unmarshal([]byte(body), &cite); err != nil {
		return types.VerifiedCitation{}, false, fmt.Errorf("parsing cached citation: %w", err)
	}
	return cite, true, nil
}

func citationKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
