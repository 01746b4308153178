package core

import (
	"testing"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
)

func scored(path string, score float64) schema.FileScore {
	return schema.FileScore{Path: path, Score: score, Status: schema.PassedStatus, Linter: schema.PylintKind}
}

func skippedScore(path string, reason schema.SkipReason) schema.FileScore {
	return schema.FileScore{Path: path, Skipped: true, SkipReason: reason, Status: schema.SkippedStatus}
}

// TestAggregateLimitPolicy tests the mean-versus-limit decision.
func TestAggregateLimitPolicy(t *testing.T) {
	tests := []struct {
		name         string
		scores       []schema.FileScore
		limit        float64
		expectedMean float64
		expectedN    int
		status       schema.Status
	}{
		{
			name:         "single file above limit",
			scores:       []schema.FileScore{scored("a.py", 8.0)},
			limit:        7.0,
			expectedMean: 8.0,
			expectedN:    1,
			status:       schema.PassedStatus,
		},
		{
			name:         "single file below limit",
			scores:       []schema.FileScore{scored("a.py", 6.0)},
			limit:        7.0,
			expectedMean: 6.0,
			expectedN:    1,
			status:       schema.FailedStatus,
		},
		{
			name:         "mean exactly at limit passes",
			scores:       []schema.FileScore{scored("a.py", 6.0), scored("b.py", 8.0)},
			limit:        7.0,
			expectedMean: 7.0,
			expectedN:    2,
			status:       schema.PassedStatus,
		},
		{
			name: "skipped files are excluded from the mean",
			scores: []schema.FileScore{
				scored("a.py", 9.0),
				skippedScore("pkg/__init__.py", schema.EmptyFileSkip),
				skippedScore("README.md", schema.NotApplicableSkip),
				scored("b.go", 7.0),
			},
			limit:        8.0,
			expectedMean: 8.0,
			expectedN:    2,
			status:       schema.PassedStatus,
		},
		{
			name:         "negative scores pull the mean down",
			scores:       []schema.FileScore{scored("a.py", 10.0), scored("b.py", -4.0)},
			limit:        5.0,
			expectedMean: 3.0,
			expectedN:    2,
			status:       schema.FailedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.scores, tt.limit, schema.LimitPolicy, nil)
			assert.InDelta(t, tt.expectedMean, result.AggregateScore, 1e-9)
			assert.Equal(t, tt.expectedN, result.ScoredFiles)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, schema.LimitPolicy, result.Policy)
			assert.Equal(t, tt.scores, result.FileScores, "discovery order is preserved")
		})
	}
}

// TestAggregateVacuousPass tests commits without scored files.
func TestAggregateVacuousPass(t *testing.T) {
	tests := []struct {
		name   string
		scores []schema.FileScore
	}{
		{name: "no files", scores: nil},
		{name: "all skipped", scores: []schema.FileScore{
			skippedScore("a.py", schema.EmptyFileSkip),
			skippedScore("notes.txt", schema.NotApplicableSkip),
		}},
	}

	for _, tt := range tests {
		for _, policy := range []schema.PolicyMode{schema.LimitPolicy, schema.RegressionPolicy} {
			t.Run(tt.name+"/"+string(policy), func(t *testing.T) {
				result := Aggregate(tt.scores, 10.0, policy, map[string]float64{"a.py": 9.0})
				assert.Equal(t, schema.PassedStatus, result.Status)
				assert.Equal(t, 0, result.ScoredFiles)
				assert.Equal(t, 0.0, result.AggregateScore)
			})
		}
	}
}

// TestAggregateRegressionPolicy tests the per-file no-regression decision.
func TestAggregateRegressionPolicy(t *testing.T) {
	tests := []struct {
		name     string
		scores   []schema.FileScore
		previous map[string]float64
		status   schema.Status
	}{
		{
			name:     "improvement passes even below the limit",
			scores:   []schema.FileScore{scored("a.py", 3.0)},
			previous: map[string]float64{"a.py": 2.0},
			status:   schema.PassedStatus,
		},
		{
			name:     "unchanged score passes",
			scores:   []schema.FileScore{scored("a.py", 6.5)},
			previous: map[string]float64{"a.py": 6.5},
			status:   schema.PassedStatus,
		},
		{
			name:     "any regression fails",
			scores:   []schema.FileScore{scored("a.py", 9.5), scored("b.py", 7.9)},
			previous: map[string]float64{"a.py": 9.0, "b.py": 8.0},
			status:   schema.FailedStatus,
		},
		{
			name:     "new file cannot regress",
			scores:   []schema.FileScore{scored("new.py", 1.0)},
			previous: map[string]float64{},
			status:   schema.PassedStatus,
		},
		{
			name:     "skipped file is not checked",
			scores:   []schema.FileScore{skippedScore("a.py", schema.EmptyFileSkip), scored("b.py", 5.0)},
			previous: map[string]float64{"a.py": 9.0, "b.py": 5.0},
			status:   schema.PassedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.scores, 10.0, schema.RegressionPolicy, tt.previous)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, schema.RegressionPolicy, result.Policy)
		})
	}
}

// TestAggregateLimitPolicyIgnoresPrevious tests that the limit policy never reads previous scores.
func TestAggregateLimitPolicyIgnoresPrevious(t *testing.T) {
	result := Aggregate([]schema.FileScore{scored("a.py", 9.0)}, 7.0, schema.LimitPolicy, map[string]float64{"a.py": 10.0})
	assert.Equal(t, schema.PassedStatus, result.Status)
}
