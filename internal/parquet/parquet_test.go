package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/commitscore/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of a Parquet file written by this package.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	for _, col := range []string{
		"run_id", "run_uuid", "run_time", "commit_id", "author_email", "policy",
		"score_limit", "aggregate_score", "repo_score", "impact", "status", "scored_files",
	} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "Column %s should exist in schema", col)
	}
}

func TestFileScoreStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(FileScore))
	for _, col := range []string{"run_id", "file_path", "linter", "score", "status", "skip_reason"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "Column %s should exist in schema", col)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	now := time.Now()
	data := []Run{
		{RunID: 1, RunUUID: "u-1", RunTime: now.Add(-time.Hour), CommitID: "abc", AuthorEmail: "a@example.com",
			Policy: "limit", ScoreLimit: 8, AggregateScore: 9.5, RepoScore: 9.1, Impact: 0.4, Status: "PASSED", ScoredFiles: 2},
		{RunID: 2, RunUUID: "u-2", RunTime: now, CommitID: "def", AuthorEmail: "b@example.com",
			Policy: "regression", AggregateScore: 6, RepoScore: 9.1, Status: "FAILED", ScoredFiles: 1},
	}

	require.NoError(t, WriteRunsParquet(data, outputPath))

	got := readAll[Run](t, outputPath)
	require.Len(t, got, 2)
	for i := range data {
		assert.Equal(t, data[i].RunID, got[i].RunID)
		assert.Equal(t, data[i].CommitID, got[i].CommitID)
		assert.Equal(t, data[i].Status, got[i].Status)
		assert.InDelta(t, data[i].RepoScore, got[i].RepoScore, 0.001)
		assert.WithinDuration(t, data[i].RunTime, got[i].RunTime, time.Nanosecond)
	}
}

func TestWriteFileScoresParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "file_scores.parquet")
	reason := "excluded"
	data := []FileScore{
		{RunID: 1, FilePath: "app.py", Linter: "pylint", Score: 9.5, Status: "PASSED"},
		{RunID: 1, FilePath: "vendor/x.py", Linter: "pylint", Status: "NOT_APPLICABLE", SkipReason: &reason},
	}

	require.NoError(t, WriteFileScoresParquet(data, outputPath))

	got := readAll[FileScore](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, "app.py", got[0].FilePath)
	assert.Nil(t, got[0].SkipReason)
	require.NotNil(t, got[1].SkipReason)
	assert.Equal(t, reason, *got[1].SkipReason)
}

func TestWriteParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet([]Run{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteFileScoresParquet(nil, "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}

func TestConvertRecords(t *testing.T) {
	now := time.Now()
	runs := ConvertRunRecords([]schema.RunRecord{{RunID: 7, RunUUID: "u", RunTime: now, Status: "PASSED", ScoredFiles: 3}})
	require.Len(t, runs, 1)
	assert.Equal(t, Run{RunID: 7, RunUUID: "u", RunTime: now, Status: "PASSED", ScoredFiles: 3}, runs[0])

	reason := "unsupported"
	files := ConvertFileScoreRecords([]schema.FileScoreRecord{{RunID: 7, FilePath: "README.md", SkipReason: &reason}})
	require.Len(t, files, 1)
	assert.Equal(t, int64(7), files[0].RunID)
	assert.Same(t, &reason, files[0].SkipReason)

	assert.Empty(t, ConvertRunRecords(nil))
}
