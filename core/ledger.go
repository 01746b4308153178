package core

import "github.com/huangsam/commitscore/schema"

// Merge folds a commit into the repository score.
// A failed commit leaves the score untouched. A passed commit blends as
// (sum of file scores + current) / (scored files + 1). The numerator takes the
// sum, not the mean, so existing score files stay comparable.
func Merge(current schema.RepositoryScore, commit schema.CommitResult) schema.LedgerUpdate {
	next := current
	if commit.Passed() {
		next.Value = (commit.ScoreTotal() + current.Value) / float64(commit.ScoredFiles+1)
	}
	return schema.LedgerUpdate{
		Previous: current,
		Current:  next,
		Impact:   next.Value - current.Value,
	}
}
