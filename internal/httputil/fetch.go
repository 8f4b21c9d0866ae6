// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/program-scraper/pkg/types"
)

// Fetcher retrieves page text over HTTP. Every failure is retried the same
// way until the attempt budget runs out.
type Fetcher struct {
	client *http.Client
	cfg    types.HTTPConfig
	retry  types.RetryConfig
	w      io.Writer
}

// NewFetcher returns a Fetcher that logs failed attempts to w. When client is
// nil a client with cfg.Timeout is created.
func NewFetcher(client *http.Client, cfg types.HTTPConfig, retry types.RetryConfig, w io.Writer) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if w == nil {
		w = io.Discard
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = DefaultMaxAttempts
	}
	return &Fetcher{client: client, cfg: cfg, retry: retry, w: w}
}

// Fetch returns the decoded text of url. Between attempts it waits
// Backoff(attempt, retry.Backoff). After the last failed attempt it returns
// an error wrapping the final cause; if ctx ends during a wait it returns
// ctx.Err().
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		text, err := f.fetchOnce(ctx, url)
		if err == nil {
			return text, nil
		}
		lastErr = err
		fmt.Fprintf(f.w, "fetch error (%d/%d) for %s: %v\n", attempt, f.retry.MaxAttempts, url, err)

		if attempt == f.retry.MaxAttempts {
			break
		}
		if err := Sleep(ctx, Backoff(attempt, f.retry.Backoff)); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("fetching %s: giving up after %d attempts: %w", url, f.retry.MaxAttempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return DecodeHTML(body)
}

// DecodeHTML converts an HTML body to UTF-8 text. The encoding is detected
// from the content itself (byte order mark, <meta> charset declaration,
// UTF-8 validity, then windows-1252). The Content-Type header is ignored.
func DecodeHTML(body []byte) (string, error) {
	enc, name, _ := charset.DetermineEncoding(body, "")
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decoding %s body: %w", name, err)
	}
	return string(decoded), nil
}
