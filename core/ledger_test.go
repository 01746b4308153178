package core

import (
	"math"
	"testing"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
)

// TestMerge tests the repository score blend.
func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		commit   schema.CommitResult
		expected float64
		impact   float64
	}{
		{
			name:     "passed single file",
			current:  5.0,
			commit:   schema.CommitResult{AggregateScore: 9.0, ScoredFiles: 1, Status: schema.PassedStatus},
			expected: 7.0,
			impact:   2.0,
		},
		{
			name:     "passed three files blends their sum",
			current:  6.0,
			commit:   schema.CommitResult{AggregateScore: 8.0, ScoredFiles: 3, Status: schema.PassedStatus},
			expected: 7.5,
			impact:   1.5,
		},
		{
			name:     "perfect commit keeps a perfect repository",
			current:  10.0,
			commit:   schema.CommitResult{AggregateScore: 10.0, ScoredFiles: 2, Status: schema.PassedStatus},
			expected: 10.0,
			impact:   0.0,
		},
		{
			name:     "first commit on a fresh ledger",
			current:  0.0,
			commit:   schema.CommitResult{AggregateScore: 8.0, ScoredFiles: 1, Status: schema.PassedStatus},
			expected: 4.0,
			impact:   4.0,
		},
		{
			name:     "vacuous pass leaves the value alone",
			current:  6.25,
			commit:   schema.CommitResult{Status: schema.PassedStatus},
			expected: 6.25,
			impact:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := Merge(schema.RepositoryScore{Value: tt.current}, tt.commit)
			assert.Equal(t, tt.current, update.Previous.Value)
			assert.InDelta(t, tt.expected, update.Current.Value, 1e-12)
			assert.InDelta(t, tt.impact, update.Impact, 1e-12)
		})
	}
}

// TestMergeFailedCommitIsBitForBit tests that a failed commit never changes the score.
func TestMergeFailedCommitIsBitForBit(t *testing.T) {
	values := []float64{0, 1.0 / 3.0, -2.75, 9.999999999999998, math.SmallestNonzeroFloat64}
	for _, v := range values {
		commit := schema.CommitResult{AggregateScore: 2.0, ScoredFiles: 4, Status: schema.FailedStatus}
		update := Merge(schema.RepositoryScore{Value: v}, commit)
		assert.Equal(t, math.Float64bits(v), math.Float64bits(update.Current.Value))
		assert.Equal(t, 0.0, update.Impact)
	}
}
