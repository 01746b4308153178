// Package contract provides interfaces and shared utilities for commitscore's internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/commitscore/schema"
)

// Sentinel errors shared across the engine and its collaborators.
var (
	// ErrLinterUnavailable means the linter executable could not be launched at all.
	ErrLinterUnavailable = errors.New("linter could not be launched")

	// ErrNotAtRevision means the path does not exist at the requested revision.
	ErrNotAtRevision = errors.New("path does not exist at revision")
)

// GitClient defines the version-control operations the hook needs.
// This allows the scoring logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ResolveCommit returns the commit hash of ref, or the empty tree hash when
	// ref is HEAD in a repository without commits.
	ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error)

	// GetAuthorIdent returns the identity git will record as the commit author.
	GetAuthorIdent(ctx context.Context, repoPath string) (schema.Identity, error)

	// --- Changed Files ---

	// GetStagedFiles returns added or modified paths in the index.
	GetStagedFiles(ctx context.Context, repoPath string) ([]string, error)

	// GetChangedFilesBetweenRefs returns added or modified paths between two revisions.
	GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error)

	// --- File State / Content ---

	// ShowFileAtRef returns the content of path at ref, or ErrNotAtRevision.
	ShowFileAtRef(ctx context.Context, repoPath string, ref string, path string) ([]byte, error)

	// --- History ---

	// GetRecentCommits returns the last n commits, newest first.
	GetRecentCommits(ctx context.Context, repoPath string, n int) ([]schema.CommitInfo, error)

	// GetDiffStat returns line insertions and deletions of path between two
	// revisions. An empty targetRef means the index.
	GetDiffStat(ctx context.Context, repoPath string, baseRef string, targetRef string, path string) (schema.DiffStat, error)
}

// LinterRunner runs a linter executable against a single file.
type LinterRunner interface {
	// Run returns the linter's stdout. A linter that starts and exits non-zero
	// still returns its output with a nil error. ErrLinterUnavailable is
	// returned when the executable cannot be launched.
	Run(ctx context.Context, command string, args []string, path string) ([]byte, error)
}

// Submitter pushes score records to the remote scoring-history service.
type Submitter interface {
	Submit(ctx context.Context, records []schema.SubmitRecord) error
}

// ScoreLedger persists the running repository score.
type ScoreLedger interface {
	// Load returns the current score, or the configured default when unreadable.
	Load() (schema.RepositoryScore, error)

	// Update runs merge on the current score under an exclusive lock and
	// persists the merged value.
	Update(merge func(schema.RepositoryScore) schema.LedgerUpdate) (schema.LedgerUpdate, error)

	// Reset overwrites the score with value.
	Reset(value float64) error
}

// StoreManager defines the interface for managing the history store and the lint cache.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
	GetCacheStore() CacheStore
}

// CacheStore defines the interface for caching linter results.
type CacheStore interface {
	// Get returns the value, version and unix timestamp stored at key.
	// A missing key returns sql.ErrNoRows.
	Get(key string) ([]byte, int, int64, error)

	// Set inserts or replaces the value stored at key.
	Set(key string, value []byte, version int, timestamp int64) error

	// GetStatus returns status information about the cache.
	GetStatus() (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// HistoryStore defines the interface for tracking hook runs and their file scores.
type HistoryStore interface {
	// RecordRun stores a run and its file scores, returning the run ID.
	RecordRun(run schema.RunRecord, files []schema.FileScoreRecord) (int64, error)

	// GetRecentRuns returns at most limit runs, newest first.
	GetRecentRuns(limit int) ([]schema.RunRecord, error)

	// GetAllRuns returns every run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFileScores returns every file score row, ordered by run.
	GetAllFileScores() ([]schema.FileScoreRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
