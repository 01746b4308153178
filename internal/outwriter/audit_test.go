package outwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAuditLine(t *testing.T) {
	author := schema.Identity{Name: "Dev", Email: "dev@example.com"}
	result := schema.CommitResult{CommitID: "abc123", AggregateScore: 9, Status: schema.PassedStatus}
	update := schema.LedgerUpdate{Impact: 0.5}

	line := FormatAuditLine(author, result, update)
	assert.Equal(t, "dev@example.com", strings.TrimSpace(line[:40]))
	assert.Equal(t, " COMMIT SCORE  9.00 IMPACT ON REPO  0.50  AGAINST abc123 STATUS PASSED\n", line[40:])

	// Whitespace splitting is how existing readers consume the log
	fields := strings.Fields(line)
	assert.Equal(t, []string{"dev@example.com", "COMMIT", "SCORE", "9.00", "IMPACT", "ON", "REPO", "0.50", "AGAINST", "abc123", "STATUS", "PASSED"}, fields)
}

func TestAppendAuditLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commitscore.log")
	author := schema.Identity{Name: "Dev"}

	require.NoError(t, AppendAuditLine(path, author, schema.CommitResult{CommitID: "a", Status: schema.PassedStatus}, schema.LedgerUpdate{}))
	require.NoError(t, AppendAuditLine(path, author, schema.CommitResult{CommitID: "b", Status: schema.FailedStatus}, schema.LedgerUpdate{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Dev "))
	assert.True(t, strings.HasSuffix(lines[1], "AGAINST b STATUS FAILED"))

	err = AppendAuditLine(filepath.Join(t.TempDir(), "missing", "log"), author, schema.CommitResult{}, schema.LedgerUpdate{})
	assert.ErrorContains(t, err, "failed to open audit log")
}
