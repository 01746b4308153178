package outwriter

import (
	"bytes"
	"testing"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
)

func TestWriteFileLine(t *testing.T) {
	tests := []struct {
		name     string
		fs       schema.FileScore
		output   []byte
		expected string
	}{
		{
			name:     "passed file",
			fs:       schema.FileScore{Path: "app.py", Score: 9.5, Status: schema.PassedStatus, Linter: schema.PylintKind},
			expected: "Running pylint on app.py (file 1/2)..\t9.50/10.00\tPASSED\n",
		},
		{
			name:     "failed file prints the linter output",
			fs:       schema.FileScore{Path: "app.py", Score: 4, Status: schema.FailedStatus, Linter: schema.PylintKind},
			output:   []byte("C0114: Missing module docstring"),
			expected: "Running pylint on app.py (file 1/2)..\t4.00/10.00\tFAILED\nC0114: Missing module docstring\n",
		},
		{
			name: "skipped file",
			fs: schema.FileScore{
				Path: "pkg/__init__.py", Skipped: true, SkipReason: schema.EmptyFileSkip,
				Status: schema.SkippedStatus, Linter: schema.PylintKind,
			},
			expected: "Skipping pylint on pkg/__init__.py (EMPTY_FILE)..\tSKIPPED\n",
		},
		{
			name:     "skipped file without a linter",
			fs:       schema.FileScore{Path: "README.md", Skipped: true, SkipReason: schema.NotApplicableSkip, Status: schema.SkippedStatus},
			expected: "Skipping " + genericLinterName + " on README.md (NOT_APPLICABLE)..\tSKIPPED\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewOutWriter(&buf, false).WriteFileLine(1, 2, tt.fs, tt.output)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriter(&buf, false)
	ow.WriteSummary(
		schema.CommitResult{AggregateScore: 9, Status: schema.PassedStatus},
		schema.LedgerUpdate{Impact: 2},
	)
	assert.Equal(t, "\nTotal score 9.00\nYour score made an impact of 2.00\nCommit PASSED\n", buf.String())

	buf.Reset()
	ow.WriteNoFiles()
	assert.Equal(t, "No applicable files to lint.\n", buf.String())
}
