package contract

import (
	"context"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockLinterRunner is a mock type for the LinterRunner interface.
type MockLinterRunner struct {
	mock.Mock
}

var _ LinterRunner = &MockLinterRunner{} // Compile-time check

// Run implements the LinterRunner interface.
func (m *MockLinterRunner) Run(ctx context.Context, command string, args []string, path string) ([]byte, error) {
	ret := m.Called(ctx, command, args, path)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// MockSubmitter is a mock type for the Submitter interface.
type MockSubmitter struct {
	mock.Mock
}

var _ Submitter = &MockSubmitter{} // Compile-time check

// Submit implements the Submitter interface.
func (m *MockSubmitter) Submit(ctx context.Context, records []schema.SubmitRecord) error {
	ret := m.Called(ctx, records)
	return ret.Error(0)
}
