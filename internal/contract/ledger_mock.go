package contract

import (
	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockScoreLedger is a mock type for the ScoreLedger interface.
// Update applies merge to the first value returned by its "Update" expectation.
type MockScoreLedger struct {
	mock.Mock
}

var _ ScoreLedger = &MockScoreLedger{} // Compile-time check

// Load implements the ScoreLedger interface.
func (m *MockScoreLedger) Load() (schema.RepositoryScore, error) {
	ret := m.Called()
	score, _ := ret.Get(0).(schema.RepositoryScore)
	return score, ret.Error(1)
}

// Update implements the ScoreLedger interface.
func (m *MockScoreLedger) Update(merge func(schema.RepositoryScore) schema.LedgerUpdate) (schema.LedgerUpdate, error) {
	ret := m.Called(merge)
	if err := ret.Error(1); err != nil {
		return schema.LedgerUpdate{}, err
	}
	current, _ := ret.Get(0).(schema.RepositoryScore)
	return merge(current), nil
}

// Reset implements the ScoreLedger interface.
func (m *MockScoreLedger) Reset(value float64) error {
	ret := m.Called(value)
	return ret.Error(0)
}
