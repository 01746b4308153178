package schema

// Custom string types for type safety.
type (
	// Status represents the pass/fail state of a file or commit.
	Status string

	// SkipReason represents why a file was excluded from scoring.
	SkipReason string

	// LinterKind identifies a linter family.
	LinterKind string

	// PolicyMode represents the pass/fail rule applied to a commit.
	PolicyMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the history store.
	DatabaseBackend string

	// HookType represents which git hook invokes the tool.
	HookType string
)

// All statuses supported.
const (
	PassedStatus  Status = "PASSED"
	FailedStatus  Status = "FAILED"
	SkippedStatus Status = "SKIPPED"
)

// History statuses, spelled the way the history service has always received them.
const (
	HistorySuccess Status = "SUCCESS"
	HistoryFailure Status = "Failure"
)

// All skip reasons supported.
const (
	NoSkip            SkipReason = ""
	EmptyFileSkip     SkipReason = "EMPTY_FILE"
	NotApplicableSkip SkipReason = "NOT_APPLICABLE"
)

// All linter families supported.
const (
	PylintKind LinterKind = "pylint"
	GolintKind LinterKind = "golint"
)

// All pass/fail policies supported.
const (
	LimitPolicy      PolicyMode = "limit" // default
	RegressionPolicy PolicyMode = "regression"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All history store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All hook types supported.
const (
	PreCommitHook  HookType = "pre-commit" // default
	PostCommitHook HookType = "post-commit"
)

// MaxScore is the top of the linter rating scale.
const MaxScore = 10.0

// EmptyTreeHash is the object name git uses for the empty tree.
const EmptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// ValidPolicyModes lists all valid pass/fail policies.
var ValidPolicyModes = map[PolicyMode]struct{}{
	LimitPolicy:      {},
	RegressionPolicy: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid history store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidHookTypes lists all hooks the install command can write.
var ValidHookTypes = map[HookType]struct{}{
	PreCommitHook:  {},
	PostCommitHook: {},
}
