// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes scraped paper records to CSV, JSON and YAML files.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/program-scraper/pkg/types"
)

// ListSeparator joins authors and keywords inside a single CSV cell.
const ListSeparator = "; "

// CSVHeader is the fixed column order of the CSV export.
var CSVHeader = []string{"abs_id", "title", "authors", "keywords", "abstract"}

// Write writes records to every path configured in cfg, replacing existing
// files, and prints a summary to w. The first failed write is returned.
func Write(cfg types.OutputConfig, records []types.PaperRecord, w io.Writer) error {
	if err := WriteCSV(cfg.CSVPath, records); err != nil {
		return err
	}
	if err := WriteJSON(cfg.JSONPath, records); err != nil {
		return err
	}
	written := []string{cfg.CSVPath, cfg.JSONPath}

	if cfg.YAMLPath != "" {
		if err := WriteYAML(cfg.YAMLPath, records); err != nil {
			return err
		}
		written = append(written, cfg.YAMLPath)
	}

	fmt.Fprintf(w, "Saved %d records to %s\n", len(records), strings.Join(written, " and "))
	return nil
}

// EncodeCSV writes the header row and one row per record. Authors and
// keywords are joined with ListSeparator; rows end in CRLF.
func EncodeCSV(w io.Writer, records []types.PaperRecord) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Title,
			strings.Join(r.Authors, ListSeparator),
			strings.Join(r.Keywords, ListSeparator),
			r.Abstract,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the CSV export to path.
func WriteCSV(path string, records []types.PaperRecord) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, records); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// EncodeJSON writes records as a 2-space indented JSON array. Non-ASCII and
// HTML characters are written verbatim, and missing author or keyword lists
// appear as empty arrays.
func EncodeJSON(w io.Writer, records []types.PaperRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalize(records)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteJSON writes the JSON export to path.
func WriteJSON(path string, records []types.PaperRecord) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, records); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a JSON export written by WriteJSON.
func ReadJSON(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []types.PaperRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return normalize(records), nil
}

// WriteYAML writes records as a YAML sequence to path.
func WriteYAML(path string, records []types.PaperRecord) error {
	data, err := yaml.Marshal(normalize(records))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func normalize(records []types.PaperRecord) []types.PaperRecord {
	out := make([]types.PaperRecord, len(records))
	for i, r := range records {
		out[i] = r.Normalized()
	}
	return out
}
