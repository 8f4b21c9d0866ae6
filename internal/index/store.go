// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps scraped paper records in a local SQLite database so a
// program export can be searched by title, abstract, author or keyword.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/program-scraper/pkg/types"
)

const defaultMaxResults = 20

// Store manages the paper index SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
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
		`CREATE TABLE IF NOT EXISTS papers (
			abs_id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			keywords TEXT NOT NULL,
			abstract TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_seq ON papers(seq)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed    int
	Duplicates int
}

// Ingest replaces the indexed set with records in a single transaction.
// Record order is kept for queries. A repeated abs_id keeps its first
// position and its last contents, and is counted as a duplicate.
func (s *Store) Ingest(ctx context.Context, records []types.PaperRecord, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return summary, fmt.Errorf("clearing papers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (abs_id, seq, title, authors, keywords, abstract)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(abs_id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors,
			keywords=excluded.keywords, abstract=excluded.abstract`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]bool, len(records))
	for i, r := range records {
		r = r.Normalized()
		authorsJSON, _ := json.Marshal(r.Authors)
		keywordsJSON, _ := json.Marshal(r.Keywords)

		if _, err := stmt.ExecContext(ctx, r.ID, i, r.Title, string(authorsJSON), string(keywordsJSON), r.Abstract); err != nil {
			return summary, fmt.Errorf("inserting paper %s: %w", r.ID, err)
		}
		if seen[r.ID] {
			fmt.Fprintf(w, "duplicate abs_id %s\n", r.ID)
			summary.Duplicates++
			continue
		}
		seen[r.ID] = true
		summary.Indexed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "indexed: %d, duplicates: %d\n", summary.Indexed, summary.Duplicates)
	return summary, nil
}

// Count returns the number of indexed papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}
