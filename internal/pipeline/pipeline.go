// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a scrape run: it walks the configured program
// pages in order, fetches and parses each, and accumulates the records.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/program-scraper/internal/httputil"
	"github.com/pdiddy/program-scraper/pkg/types"
)

// Fetcher returns the text of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Parser turns page text into paper records.
type Parser interface {
	Parse(text string) ([]types.PaperRecord, error)
}

// Result holds the outcome of a run.
type Result struct {
	PagesFetched int
	PagesFailed  int
	Records      []types.PaperRecord
}

// Total returns the number of pages processed.
func (r Result) Total() int {
	return r.PagesFetched + r.PagesFailed
}

// PageURL joins the base URL and a page identifier with exactly one slash.
func PageURL(base, page string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(page, "/")
}

// Run processes cfg.Pages in order, printing progress to w. A page that
// cannot be fetched or parsed contributes no records and the run moves on.
// After every page, successful or not, Run waits cfg.PageDelay. Run stops
// early only if ctx is done.
func Run(ctx context.Context, fetcher Fetcher, parser Parser, cfg types.ScrapeConfig, w io.Writer) Result {
	result := Result{Records: []types.PaperRecord{}}

	for _, page := range cfg.Pages {
		url := PageURL(cfg.BaseURL, page)
		fmt.Fprintf(w, "Fetching %s\n", url)

		if records, err := processPage(ctx, fetcher, parser, url); err != nil {
			fmt.Fprintf(w, "Failed %s: %v\n", url, err)
			result.PagesFailed++
		} else {
			fmt.Fprintf(w, "Found %d entries on %s\n", len(records), page)
			result.PagesFetched++
			result.Records = append(result.Records, records...)
		}

		if err := httputil.Sleep(ctx, cfg.PageDelay); err != nil {
			fmt.Fprintf(w, "stopping: %v\n", err)
			break
		}
	}

	fmt.Fprintf(w, "\nRun summary: %d pages fetched, %d failed, %d records\n",
		result.PagesFetched, result.PagesFailed, len(result.Records))
	return result
}

func processPage(ctx context.Context, fetcher Fetcher, parser Parser, url string) ([]types.PaperRecord, error) {
	text, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	records, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return records, nil
}
