// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/program-scraper/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.IndexConfig{
		DBPath:     filepath.Join(t.TempDir(), "index", "papers.db"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecords() []types.PaperRecord {
	return []types.PaperRecord{
		{ID: "30", Title: "Robust Grasping", Authors: []string{"J. Doe", "A. Smith"}, Keywords: []string{"Manipulation"}, Abstract: "This paper presents a grasp planner."},
		{ID: "10", Title: "Legged Locomotion", Authors: []string{"B. Lee"}, Keywords: []string{"Legged Robots", "Control"}, Abstract: "We study quadrupeds."},
		{ID: "20", Title: "Visual SLAM", Authors: []string{}, Keywords: []string{}, Abstract: ""},
	}
}

func ids(records []types.PaperRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// --- tests ---

func TestIngest_AndCount(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, testRecords(), &log)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Indexed)
	assert.Equal(t, 0, summary.Duplicates)
	assert.Contains(t, log.String(), "indexed: 3")

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestIngest_ReplacesPreviousSet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, testRecords(), &bytes.Buffer{})
	require.NoError(t, err)
	_, err = store.Ingest(ctx, testRecords()[:1], &bytes.Buffer{})
	require.NoError(t, err)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIngest_Duplicates(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	records := testRecords()
	dup := records[0]
	dup.Title = "Robust Grasping (revised)"
	records = append(records, dup)

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, records, &log)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Indexed)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Contains(t, log.String(), "duplicate abs_id 30")

	got, err := store.Query(ctx, QueryOptions{Text: "grasping"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Robust Grasping (revised)", got[0].Title)
}

func TestQuery_PreservesScrapeOrder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, testRecords(), &bytes.Buffer{})
	require.NoError(t, err)

	got, err := store.Query(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"30", "10", "20"}, ids(got))
	assert.Equal(t, testRecords(), got, "records come back unchanged")
}

func TestQuery_Filters(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, testRecords(), &bytes.Buffer{})
	require.NoError(t, err)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"title text", QueryOptions{Text: "slam"}, []string{"20"}},
		{"abstract text", QueryOptions{Text: "quadruped"}, []string{"10"}},
		{"author", QueryOptions{Author: "smith"}, []string{"30"}},
		{"keyword", QueryOptions{Keyword: "control"}, []string{"10"}},
		{"combined", QueryOptions{Text: "paper", Keyword: "Manipulation"}, []string{"30"}},
		{"combined no match", QueryOptions{Author: "Lee", Keyword: "Manipulation"}, []string{}},
		{"limit", QueryOptions{MaxResults: 2}, []string{"30", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQueryOptions_IsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{}.IsEmpty())
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{Author: "x"}.IsEmpty())
}
