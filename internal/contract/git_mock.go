package contract

import (
	"context"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient interface.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// ResolveCommit implements the GitClient interface.
func (m *MockGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	return ret.String(0), ret.Error(1)
}

// GetAuthorIdent implements the GitClient interface.
func (m *MockGitClient) GetAuthorIdent(ctx context.Context, repoPath string) (schema.Identity, error) {
	ret := m.Called(ctx, repoPath)
	id, _ := ret.Get(0).(schema.Identity)
	return id, ret.Error(1)
}

// GetStagedFiles implements the GitClient interface.
func (m *MockGitClient) GetStagedFiles(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// GetChangedFilesBetweenRefs implements the GitClient interface.
func (m *MockGitClient) GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// ShowFileAtRef implements the GitClient interface.
func (m *MockGitClient) ShowFileAtRef(ctx context.Context, repoPath string, ref string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref, path)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// GetRecentCommits implements the GitClient interface.
func (m *MockGitClient) GetRecentCommits(ctx context.Context, repoPath string, n int) ([]schema.CommitInfo, error) {
	ret := m.Called(ctx, repoPath, n)
	commits, _ := ret.Get(0).([]schema.CommitInfo)
	return commits, ret.Error(1)
}

// GetDiffStat implements the GitClient interface.
func (m *MockGitClient) GetDiffStat(ctx context.Context, repoPath string, baseRef string, targetRef string, path string) (schema.DiffStat, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef, path)
	stat, _ := ret.Get(0).(schema.DiffStat)
	return stat, ret.Error(1)
}
