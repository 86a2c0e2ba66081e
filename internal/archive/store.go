// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished research reports in SQLite and
// builds a full-text index over their sources for later lookup.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-mentor/pkg/types"
)

const dbFile = "archive.db"

// Store manages the report archive SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the archive database at cfg.Dir/archive.db.
// It creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			summary TEXT,
			grade TEXT,
			score REAL,
			created TEXT NOT NULL,
			body TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id TEXT NOT NULL REFERENCES reports(id),
			title TEXT NOT NULL,
			authors TEXT,
			year INTEGER,
			venue TEXT,
			doi TEXT,
			arxiv_id TEXT,
			url TEXT,
			status TEXT,
			grade TEXT,
			summary TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_report_id ON sources(report_id)`,
		`CREATE TABLE IF NOT EXISTS citations (
			title_key TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			created TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sources_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sources_fts USING fts5(title, summary, content=sources, content_rowid=rowid)`,
			`CREATE TRIGGER sources_ai AFTER INSERT ON sources BEGIN
				INSERT INTO sources_fts(rowid, title, summary) VALUES (new.rowid, new.title, new.summary);
			END`,
			`CREATE TRIGGER sources_ad AFTER DELETE ON sources BEGIN
				INSERT INTO sources_fts(sources_fts, rowid, title, summary) VALUES('delete', old.rowid, old.title, old.summary);
			END`,
			`CREATE TRIGGER sources_au AFTER UPDATE ON sources BEGIN
				INSERT INTO sources_fts(sources_fts, rowid, title, summary) VALUES('delete', old.rowid, old.title, old.summary);
				INSERT INTO sources_fts(rowid, title, summary) VALUES (new.rowid, new.title, new.summary);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveReport persists a validated report and indexes its sources.
// Saving the same QueryID twice replaces the earlier copy.
func (s *Store) SaveReport(ctx context.Context, report *types.ValidatedReport) error {
	if report.QueryID == "" {
		return fmt.Errorf("report has no query id")
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE report_id = ?`, report.QueryID); err != nil {
		return fmt.Errorf("deleting old sources: %w", err)
	}

	created := report.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, topic, summary, grade, score, created, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			topic=excluded.topic, summary=excluded.summary, grade=excluded.grade,
			score=excluded.score, created=excluded.created, body=excluded.body`,
		report.QueryID, report.Topic, report.Summary, string(report.OverallGrade),
		report.OverallScore, created.Format(time.RFC3339), string(body),
	)
	if err != nil {
		return fmt.Errorf("upserting report: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sources (report_id, title, authors, year, venue, doi, arxiv_id, url, status, grade, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, src := range report.Sources {
		authorsJSON, _ := json.Marshal(src.Authors)
		_, err := stmt.ExecContext(ctx,
			report.QueryID, src.Title, string(authorsJSON), src.Year, src.Venue,
			src.DOI, src.ArxivID, src.URL, string(src.VerificationStatus),
			string(src.EvidenceGrade), src.Abstract,
		)
		if err != nil {
			return fmt.Errorf("inserting source %q: %w", src.Title, err)
		}
	}

	return tx.Commit()
}
