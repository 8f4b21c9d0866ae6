// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/program-scraper/internal/index"
	"github.com/pdiddy/program-scraper/internal/output"
	"github.com/pdiddy/program-scraper/pkg/types"
)

// --- index subcommand ---

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load a JSON export into the SQLite index",
	Long: `Index reads a JSON export written by scrape and replaces the contents of
the SQLite index with its records, keeping their original order.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	records, err := output.ReadJSON(viper.GetString("input"))
	if err != nil {
		return err
	}
	return indexRecords(context.Background(), indexConfig(), records)
}

// indexRecords replaces the index at cfg.DBPath with records.
func indexRecords(ctx context.Context, cfg types.IndexConfig, records []types.PaperRecord) error {
	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Ingest(ctx, records, os.Stdout); err != nil {
		return err
	}
	return nil
}

// --- query subcommand ---

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the SQLite index",
	Long: `Query searches the index built by index (or scrape --index). The optional
text argument matches titles and abstracts; --author and --keyword match
individual names and keywords. All matches are case-insensitive substrings.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	opts := index.QueryOptions{
		Text:       strings.Join(args, " "),
		Author:     viper.GetString("author"),
		Keyword:    viper.GetString("keyword"),
		MaxResults: viper.GetInt("max-results"),
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --author, or --keyword")
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}
	return formatQueryOutput(os.Stdout, results, viper.GetBool("json"))
}

func formatQueryOutput(w io.Writer, results []types.PaperRecord, jsonOutput bool) error {
	if jsonOutput {
		return output.EncodeJSON(w, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Authors"})
	for _, r := range results {
		t.AppendRow(table.Row{r.ID, truncate(r.Title, 60), strings.Join(r.Authors, output.ListSeparator)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		DBPath:     viper.GetString("db"),
		MaxResults: viper.GetInt("max-results"),
	}
}

func init() {
	indexCmd.Flags().String("input", defaultJSONPath, "JSON export to load")
	indexCmd.Flags().String("db", defaultDBPath, "SQLite index database")

	queryCmd.Flags().String("db", defaultDBPath, "SQLite index database")
	queryCmd.Flags().String("author", "", "filter by author name")
	queryCmd.Flags().String("keyword", "", "filter by keyword")
	queryCmd.Flags().Int("max-results", 20, "maximum number of results")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
}
