// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/program-scraper/pkg/types"
)

func sampleRecords() []types.PaperRecord {
	return []types.PaperRecord{
		{
			ID:       "1234",
			Title:    "Robust Grasping",
			Authors:  []string{"J. Doe", "Zoë Müller"},
			Keywords: []string{"Manipulation", "Grasping"},
			Abstract: `This paper presents a "robust", fast method, with <tags> & commas.`,
		},
		{
			ID:       "5678",
			Title:    "",
			Authors:  []string{},
			Keywords: []string{},
			Abstract: "",
		},
	}
}

func testPaths(t *testing.T) types.OutputConfig {
	t.Helper()
	dir := t.TempDir()
	return types.OutputConfig{
		CSVPath:  filepath.Join(dir, "papers.csv"),
		JSONPath: filepath.Join(dir, "papers.json"),
	}
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRecords()))

	assert.True(t, strings.HasPrefix(buf.String(), "abs_id,title,authors,keywords,abstract\r\n"))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{
		"1234",
		"Robust Grasping",
		"J. Doe; Zoë Müller",
		"Manipulation; Grasping",
		`This paper presents a "robust", fast method, with <tags> & commas.`,
	}, rows[1])
	assert.Equal(t, []string{"5678", "", "", "", ""}, rows[2])
}

func TestEncodeCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, nil))
	assert.Equal(t, "abs_id,title,authors,keywords,abstract\r\n", buf.String())
}

func TestCSVMatchesJSONLists(t *testing.T) {
	records := sampleRecords()
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	for i, r := range records {
		assert.Equal(t, strings.Join(r.Authors, "; "), rows[i+1][2])
		assert.Equal(t, strings.Join(r.Keywords, "; "), rows[i+1][3])
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRecords()[:1]))

	out := buf.String()
	assert.Contains(t, out, "\n  {\n    \"abs_id\": \"1234\",\n    \"title\": \"Robust Grasping\",")
	assert.Contains(t, out, "Zoë Müller", "non-ASCII is written verbatim")
	assert.Contains(t, out, "<tags> & commas")
	assert.NotContains(t, out, `\u00`)
}

func TestEncodeJSON_NilListsAsEmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, []types.PaperRecord{{ID: "1"}}))

	assert.Contains(t, buf.String(), `"authors": []`)
	assert.Contains(t, buf.String(), `"keywords": []`)
	assert.NotContains(t, buf.String(), "null")
}

func TestEncodeJSON_EmptyRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONRoundTrip(t *testing.T) {
	paths := testPaths(t)
	records := sampleRecords()

	require.NoError(t, WriteJSON(paths.JSONPath, records))
	got, err := ReadJSON(paths.JSONPath)
	require.NoError(t, err)

	assert.Equal(t, records, got)
}

func TestWriteJSON_Idempotent(t *testing.T) {
	paths := testPaths(t)

	require.NoError(t, WriteJSON(paths.JSONPath, sampleRecords()))
	first, err := os.ReadFile(paths.JSONPath)
	require.NoError(t, err)

	require.NoError(t, WriteJSON(paths.JSONPath, sampleRecords()))
	second, err := os.ReadFile(paths.JSONPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWrite_OverwritesExistingFiles(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.CSVPath, []byte("stale content that is longer than the new file"), 0o644))
	require.NoError(t, os.WriteFile(paths.JSONPath, []byte("stale"), 0o644))

	var log bytes.Buffer
	require.NoError(t, Write(paths, nil, &log))

	csvData, err := os.ReadFile(paths.CSVPath)
	require.NoError(t, err)
	assert.Equal(t, "abs_id,title,authors,keywords,abstract\r\n", string(csvData))

	jsonData, err := os.ReadFile(paths.JSONPath)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(jsonData))

	assert.Contains(t, log.String(), "Saved 0 records to")
}

func TestWrite_WithYAML(t *testing.T) {
	paths := testPaths(t)
	paths.YAMLPath = filepath.Join(filepath.Dir(paths.CSVPath), "papers.yaml")

	var log bytes.Buffer
	require.NoError(t, Write(paths, sampleRecords(), &log))

	data, err := os.ReadFile(paths.YAMLPath)
	require.NoError(t, err)

	var got []types.PaperRecord
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, sampleRecords(), got)
	assert.Contains(t, string(data), "abs_id: \"1234\"")
	assert.Contains(t, log.String(), paths.YAMLPath)
}

func TestWrite_FailureIsReturned(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir")
	cfg := types.OutputConfig{
		CSVPath:  filepath.Join(missing, "papers.csv"),
		JSONPath: filepath.Join(missing, "papers.json"),
	}

	err := Write(cfg, sampleRecords(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "papers.csv")
}
