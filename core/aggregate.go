package core

import (
	"github.com/huangsam/commitscore/schema"
)

// Aggregate turns per-file scores into the commit decision.
// Skipped files count toward neither the mean nor the decision, and a commit
// without scored files passes vacuously. previous maps paths to their score at
// the preceding revision and is only read by the regression policy.
func Aggregate(scores []schema.FileScore, limit float64, policy schema.PolicyMode, previous map[string]float64) schema.CommitResult {
	result := schema.CommitResult{
		FileScores: scores,
		Status:     schema.PassedStatus,
		Policy:     policy,
	}

	var total float64
	regressed := false
	for _, fs := range scores {
		if fs.Skipped {
			continue
		}
		total += fs.Score
		result.ScoredFiles++
		if prev, ok := previous[fs.Path]; ok && fs.Score < prev {
			regressed = true
		}
	}

	if result.ScoredFiles == 0 {
		return result
	}
	result.AggregateScore = total / float64(result.ScoredFiles)

	switch policy {
	case schema.RegressionPolicy:
		if regressed {
			result.Status = schema.FailedStatus
		}
	default:
		if result.AggregateScore < limit {
			result.Status = schema.FailedStatus
		}
	}
	return result
}
