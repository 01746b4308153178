package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newMemoryHistory(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func sampleRun(commit string, status schema.Status, at time.Time) schema.RunRecord {
	return schema.RunRecord{
		RunUUID:        "uuid-" + commit,
		RunTime:        at,
		CommitID:       commit,
		AuthorEmail:    "dev@example.com",
		Policy:         "limit",
		ScoreLimit:     8,
		AggregateScore: 8.5,
		RepoScore:      8.25,
		Impact:         0.25,
		Status:         string(status),
		ScoredFiles:    1,
	}
}

func TestHistoryStoreRecordAndQuery(t *testing.T) {
	store := newMemoryHistory(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC)

	reason := string(schema.NotApplicableSkip)
	id1, err := store.RecordRun(sampleRun("aaa", schema.PassedStatus, base), []schema.FileScoreRecord{
		{FilePath: "app.py", Linter: "pylint", Score: 8.5, Status: string(schema.PassedStatus)},
		{FilePath: "README.md", Status: string(schema.SkippedStatus), SkipReason: &reason},
	})
	require.NoError(t, err)
	id2, err := store.RecordRun(sampleRun("bbb", schema.FailedStatus, base.Add(time.Hour)), nil)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	recent, err := store.GetRecentRuns(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "bbb", recent[0].CommitID)
	assert.Equal(t, id2, recent[0].RunID)

	all, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "aaa", all[0].CommitID)
	assert.True(t, base.Equal(all[0].RunTime), "run time survives the round trip")
	assert.Equal(t, "uuid-aaa", all[0].RunUUID)
	assert.Equal(t, 8.25, all[0].RepoScore)
	assert.Equal(t, int32(1), all[0].ScoredFiles)

	files, err := store.GetAllFileScores()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "README.md", files[0].FilePath, "ordered by path within a run")
	require.NotNil(t, files[0].SkipReason)
	assert.Equal(t, reason, *files[0].SkipReason)
	assert.Equal(t, id1, files[1].RunID)
	assert.Nil(t, files[1].SkipReason)
}

func TestHistoryStoreDuplicateFileRollsBack(t *testing.T) {
	store := newMemoryHistory(t)
	files := []schema.FileScoreRecord{
		{FilePath: "app.py", Linter: "pylint", Score: 9, Status: "PASSED"},
		{FilePath: "app.py", Linter: "pylint", Score: 9, Status: "PASSED"},
	}
	_, err := store.RecordRun(sampleRun("aaa", schema.PassedStatus, time.Now()), files)
	require.Error(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs, "a failed insert leaves no partial run")
}

func TestHistoryStoreStatus(t *testing.T) {
	store := newMemoryHistory(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.TotalRuns)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	last := first.Add(48 * time.Hour)
	_, err = store.RecordRun(sampleRun("aaa", schema.PassedStatus, first), []schema.FileScoreRecord{{FilePath: "a.py"}})
	require.NoError(t, err)
	id, err := store.RecordRun(sampleRun("bbb", schema.FailedStatus, last), nil)
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, 1, status.PassedRuns)
	assert.Equal(t, id, status.LastRunID)
	assert.True(t, last.Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, map[string]int64{runsTable: 2, fileScoresTable: 1}, status.TableSizes)
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.RecordRun(sampleRun("aaa", schema.PassedStatus, time.Now()), nil)
	require.NoError(t, err)
	assert.Zero(t, id)

	runs, err := store.GetRecentRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestNewHistoryStoreUnsupported(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}
