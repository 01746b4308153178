// Package schema has the models and enums shared by every part of commitscore.
package schema

// FileScore is the outcome of linting one changed file.
type FileScore struct {
	Path       string     `json:"path"`
	Score      float64    `json:"score"`
	Skipped    bool       `json:"skipped"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`
	Status     Status     `json:"status"`
	Linter     LinterKind `json:"linter,omitempty"`
}

// CommitResult is the aggregate outcome of one hook invocation.
type CommitResult struct {
	CommitID       string      `json:"commit"`
	AuthorName     string      `json:"author"`
	AuthorEmail    string      `json:"email"`
	FileScores     []FileScore `json:"files"`
	AggregateScore float64     `json:"score"`
	ScoredFiles    int         `json:"scored_files"` // non-skipped files behind AggregateScore
	Status         Status      `json:"status"`
	Policy         PolicyMode  `json:"policy"`
}

// Passed reports whether the commit was accepted.
func (c CommitResult) Passed() bool {
	return c.Status == PassedStatus
}

// ScoreTotal is the sum of the scored files, the numerator the ledger blends.
func (c CommitResult) ScoreTotal() float64 {
	return c.AggregateScore * float64(c.ScoredFiles)
}

// AnyFileFailed reports whether an individual file fell below the limit.
func (c CommitResult) AnyFileFailed() bool {
	for _, fs := range c.FileScores {
		if fs.Status == FailedStatus {
			return true
		}
	}
	return false
}

// RepositoryScore is the persisted running score of the repository.
type RepositoryScore struct {
	Value float64 `json:"value"`
}

// LedgerUpdate is the result of merging a commit into the repository score.
type LedgerUpdate struct {
	Previous RepositoryScore `json:"previous"`
	Current  RepositoryScore `json:"current"`
	Impact   float64         `json:"impact"`
}

// Identity is the author of a commit as reported by git.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String returns the identity the way the audit log writes it.
func (id Identity) String() string {
	if id.Email != "" {
		return id.Email
	}
	return id.Name
}

// CommitInfo is one entry of the recent commit log.
type CommitInfo struct {
	Commit string `json:"commit"`
	User   string `json:"user"`
	Email  string `json:"email"`
}

// DiffStat holds line counts for one file between two revisions.
type DiffStat struct {
	Insertions int `json:"insert"`
	Deletions  int `json:"delete"`
}
