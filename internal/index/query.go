// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/program-scraper/pkg/types"
)

// QueryOptions holds parameters for index queries. All filters are
// case-insensitive substring matches and combine with AND.
type QueryOptions struct {
	// Text matches the title or the abstract.
	Text string

	// Author matches any one author.
	Author string

	// Keyword matches any one keyword.
	Keyword string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Text == "" && q.Author == "" && q.Keyword == ""
}

// Query returns matching records in their original scrape order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.PaperRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT abs_id, title, authors, keywords, abstract FROM papers p WHERE 1=1`)

	if opts.Text != "" {
		qb.WriteString(` AND (p.title LIKE ? OR p.abstract LIKE ?)`)
		args = append(args, like(opts.Text), like(opts.Text))
	}
	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.authors) WHERE value LIKE ?)`)
		args = append(args, like(opts.Author))
	}
	if opts.Keyword != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.keywords) WHERE value LIKE ?)`)
		args = append(args, like(opts.Keyword))
	}

	qb.WriteString(` ORDER BY p.seq LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	results := []types.PaperRecord{}
	for rows.Next() {
		var (
			r            types.PaperRecord
			authorsJSON  string
			keywordsJSON string
		)
		if err := rows.Scan(&r.ID, &r.Title, &authorsJSON, &keywordsJSON, &r.Abstract); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &r.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &r.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords of %s: %w", r.ID, err)
		}
		results = append(results, r.Normalized())
	}
	return results, rows.Err()
}

func like(s string) string {
	return "%" + s + "%"
}
