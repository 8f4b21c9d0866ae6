// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/program-scraper/internal/httputil"
	"github.com/pdiddy/program-scraper/internal/output"
	"github.com/pdiddy/program-scraper/internal/pipeline"
	"github.com/pdiddy/program-scraper/internal/program"
	"github.com/pdiddy/program-scraper/pkg/types"
)

const (
	defaultBaseURL     = "https://ras.papercept.net/conferences/conferences/IROS25/program/"
	defaultTimeout     = 15 * time.Second
	defaultBackoff     = 1 * time.Second
	defaultPageDelay   = 1 * time.Second
	defaultMaxAttempts = 3
	defaultCSVPath     = "iros25_papers.csv"
	defaultJSONPath    = "iros25_papers.json"
	defaultDBPath      = "iros25_papers.db"
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var defaultPages = []string{
	"IROS25_ContentListWeb_1.html",
	"IROS25_ContentListWeb_2.html",
	"IROS25_ContentListWeb_3.html",
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch the program pages and write CSV and JSON exports",
	Long: `Scrape fetches each configured program page in order, extracts one record
per paper, and writes all records to the CSV and JSON output files, replacing
any previous export. Pages that still fail after the retry budget are skipped;
the command only fails when an output file cannot be written.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("base-url", defaultBaseURL, "program directory the pages are fetched from")
	scrapeCmd.Flags().StringSlice("pages", defaultPages, "page identifiers, in processing order")
	scrapeCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	scrapeCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header sent with requests")
	scrapeCmd.Flags().Int("max-attempts", defaultMaxAttempts, "attempts per page before it is skipped")
	scrapeCmd.Flags().Duration("backoff", defaultBackoff, "base retry delay; attempt n waits n times this")
	scrapeCmd.Flags().Duration("page-delay", defaultPageDelay, "pause after each page")
	scrapeCmd.Flags().String("abstract-prefix", program.DefaultAbstractIDPrefix, "id prefix of abstract containers")
	scrapeCmd.Flags().String("author-marker", program.DefaultAuthorIndexMarker, "href substring of author index links")
	scrapeCmd.Flags().String("keyword-marker", program.DefaultKeywordIndexMarker, "href substring of keyword index links")
	scrapeCmd.Flags().String("csv-path", defaultCSVPath, "CSV output file")
	scrapeCmd.Flags().String("json-path", defaultJSONPath, "JSON output file")
	scrapeCmd.Flags().String("yaml-path", "", "optional YAML output file")
	scrapeCmd.Flags().Bool("index", false, "also load the records into the SQLite index")
	scrapeCmd.Flags().String("db", defaultDBPath, "SQLite index database (with --index)")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := scrapeConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	fetcher := httputil.NewFetcher(client, cfg.HTTPConfig, cfg.Retry, os.Stdout)
	parser := program.NewParser(cfg.Parser)

	ctx := context.Background()
	result := pipeline.Run(ctx, fetcher, parser, cfg, os.Stdout)

	if err := output.Write(cfg.Output, result.Records, os.Stdout); err != nil {
		return err
	}

	if viper.GetBool("index") {
		return indexRecords(ctx, indexConfig(), result.Records)
	}
	return nil
}

// scrapeConfig assembles the run configuration from flags, environment and
// config file, in viper's precedence order.
func scrapeConfig() types.ScrapeConfig {
	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user-agent"),
		},
		Retry: types.RetryConfig{
			MaxAttempts: viper.GetInt("max-attempts"),
			Backoff:     viper.GetDuration("backoff"),
		},
		Parser: types.ParserConfig{
			AbstractIDPrefix:   viper.GetString("abstract-prefix"),
			AuthorIndexMarker:  viper.GetString("author-marker"),
			KeywordIndexMarker: viper.GetString("keyword-marker"),
		},
		Output: types.OutputConfig{
			CSVPath:  viper.GetString("csv-path"),
			JSONPath: viper.GetString("json-path"),
			YAMLPath: viper.GetString("yaml-path"),
		},
		BaseURL:   viper.GetString("base-url"),
		Pages:     viper.GetStringSlice("pages"),
		PageDelay: viper.GetDuration("page-delay"),
	}
}
