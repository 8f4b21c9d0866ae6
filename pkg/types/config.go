// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"net/url"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig controls the fetch retry loop.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per page (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// Backoff is the base delay; attempt n waits n*Backoff before the next try.
	Backoff time.Duration `json:"backoff" yaml:"backoff"`
}

// ParserConfig names the markup conventions the page parser relies on.
type ParserConfig struct {
	// AbstractIDPrefix is prepended to a paper id to form the id attribute
	// of its abstract container (e.g. "Ab" -> "Ab1234").
	AbstractIDPrefix string `json:"abstract_id_prefix" yaml:"abstract_id_prefix"`

	// AuthorIndexMarker is a substring of href values that point at the
	// author index page.
	AuthorIndexMarker string `json:"author_index_marker" yaml:"author_index_marker"`

	// KeywordIndexMarker is a substring of href values that point at the
	// keyword index page.
	KeywordIndexMarker string `json:"keyword_index_marker" yaml:"keyword_index_marker"`
}

// OutputConfig holds the output file paths. An empty YAMLPath disables the
// YAML export.
type OutputConfig struct {
	CSVPath  string `json:"csv_path" yaml:"csv_path"`
	JSONPath string `json:"json_path" yaml:"json_path"`
	YAMLPath string `json:"yaml_path,omitempty" yaml:"yaml_path,omitempty"`
}

// ScrapeConfig groups the settings for one end-to-end scrape run.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	Retry  RetryConfig  `json:"retry" yaml:"retry"`
	Parser ParserConfig `json:"parser" yaml:"parser"`
	Output OutputConfig `json:"output" yaml:"output"`

	// BaseURL is the program directory the page identifiers are resolved against.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Pages lists the page identifiers in processing order.
	Pages []string `json:"pages" yaml:"pages"`

	// PageDelay is the pause after each page, successful or not.
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// Validate checks the settings the pipeline cannot run without.
func (c ScrapeConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base URL %q must be absolute", c.BaseURL)
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Backoff < 0 || c.PageDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.Output.CSVPath == "" || c.Output.JSONPath == "" {
		return fmt.Errorf("CSV and JSON output paths are required")
	}
	return nil
}

// IndexConfig holds settings for the local SQLite index.
type IndexConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
