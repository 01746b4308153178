//go:build database

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/commitscore/internal/iocache"
	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "commitscore",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/commitscore?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

// TestCommitscoreWithMySQL runs the stores and the CLI against MySQL.
func TestCommitscoreWithMySQL(t *testing.T) {
	connStr := startMySQL(t)
	t.Run("stores", func(t *testing.T) { exerciseStores(t, schema.MySQLBackend, connStr) })
	t.Run("cli", func(t *testing.T) { exerciseCLI(t, "mysql", connStr) })
}

// TestCommitscoreWithPostgres runs the stores and the CLI against PostgreSQL.
func TestCommitscoreWithPostgres(t *testing.T) {
	connStr := startPostgres(t)
	t.Run("stores", func(t *testing.T) { exerciseStores(t, schema.PostgreSQLBackend, connStr) })
	t.Run("cli", func(t *testing.T) { exerciseCLI(t, "postgresql", connStr) })
}

// exerciseStores talks to the history store and the lint cache directly.
func exerciseStores(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	require.NoError(t, iocache.ClearHistory(backend, "", connStr))
	require.NoError(t, iocache.ClearCache(backend, "", connStr))

	history, err := iocache.NewHistoryStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = history.Close() }()

	at := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
	reason := string(schema.EmptyFileSkip)
	run := schema.RunRecord{
		RunUUID:        "5f0c6a52-8b7e-4a53-9d61-0c0d5b3e1a10",
		RunTime:        at,
		CommitID:       "abc123",
		AuthorEmail:    "dev@example.com",
		Policy:         string(schema.LimitPolicy),
		ScoreLimit:     8,
		AggregateScore: 9,
		RepoScore:      4.5,
		Impact:         4.5,
		Status:         string(schema.PassedStatus),
		ScoredFiles:    1,
	}
	id, err := history.RecordRun(run, []schema.FileScoreRecord{
		{FilePath: "app.py", Linter: "pylint", Score: 9, Status: string(schema.PassedStatus)},
		{FilePath: "empty.py", Linter: "pylint", Status: string(schema.SkippedStatus), SkipReason: &reason},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := history.GetRecentRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].RunID)
	assert.Equal(t, "abc123", runs[0].CommitID)
	assert.True(t, at.Equal(runs[0].RunTime), "got %v", runs[0].RunTime)

	files, err := history.GetAllFileScores()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "app.py", files[0].FilePath)
	require.NotNil(t, files[1].SkipReason)
	assert.Equal(t, reason, *files[1].SkipReason)

	status, err := history.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, 1, status.PassedRuns)

	cache, err := iocache.NewCacheStore("commitscore_lint_cache", backend, connStr)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	_, _, _, err = cache.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, cache.Set("key", []byte(`{"report":"a"}`), 1, at.Unix()))
	require.NoError(t, cache.Set("key", []byte(`{"report":"b"}`), 1, at.Unix()+1))
	value, version, ts, err := cache.Get("key")
	require.NoError(t, err)
	assert.JSONEq(t, `{"report":"b"}`, string(value))
	assert.Equal(t, 1, version)
	assert.Equal(t, at.Unix()+1, ts)
}

// exerciseCLI drives the binary with both stores on the database backend.
func exerciseCLI(t *testing.T, backend, connStr string) {
	r := newScratchRepo(t)
	env := []string{
		"COMMITSCORE_STORE_BACKEND=" + backend,
		"COMMITSCORE_STORE_DB_CONNECT=" + connStr,
		"COMMITSCORE_CACHE_BACKEND=" + backend,
		"COMMITSCORE_CACHE_DB_CONNECT=" + connStr,
	}
	mustRun := func(args ...string) string {
		t.Helper()
		out, code := r.run("8.75", env, args...)
		require.Equal(t, 0, code, out)
		return out
	}

	mustRun("store", "clear")
	mustRun("store", "clear", "--cache")

	// Schema migrations go all the way up and back down
	assert.Contains(t, mustRun("store", "migrate"), "Successfully migrated")
	assert.Contains(t, mustRun("store", "migrate"), "No migration needed")
	mustRun("store", "migrate", "--target-version", "0")

	r.commitFile("app.py", "print(1)\n")
	out := mustRun("run", "--base-ref", "HEAD~1", "--target-ref", "HEAD", "--color", "no")
	assert.Contains(t, out, "Total score 8.75")

	// The second pass is served from the lint cache
	mustRun("history", "--commits", "2")

	out = mustRun("store", "status")
	assert.Contains(t, out, "Store Backend: "+backend)
	assert.Contains(t, out, "Total Runs: 1")
	assert.Contains(t, out, "Cache Backend: "+backend)
	assert.NotContains(t, out, "Total Entries: 0")

	exportBase := filepath.Join(t.TempDir(), "scores")
	mustRun("store", "export", "--output-file", exportBase)
	assert.FileExists(t, exportBase+".runs.parquet")
	assert.FileExists(t, exportBase+".file_scores.parquet")

	mustRun("store", "clear")
	mustRun("store", "clear", "--cache")
}
