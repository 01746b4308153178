package outwriter

import (
	"fmt"
	"os"

	"github.com/huangsam/commitscore/schema"
)

// auditLineFormat is the historical audit log layout; readers split it on whitespace.
const auditLineFormat = "%-40s COMMIT SCORE %5.2f IMPACT ON REPO %5.2f  AGAINST %s STATUS %s\n"

// FormatAuditLine renders one audit log entry.
func FormatAuditLine(author schema.Identity, result schema.CommitResult, update schema.LedgerUpdate) string {
	return fmt.Sprintf(auditLineFormat, author.String(), result.AggregateScore, update.Impact, result.CommitID, result.Status)
}

// AppendAuditLine appends one entry to the audit log at path, creating it if needed.
func AppendAuditLine(path string, author schema.Identity, result schema.CommitResult, update schema.LedgerUpdate) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(FormatAuditLine(author, result, update)); err != nil {
		return fmt.Errorf("failed to append to audit log %s: %w", path, err)
	}
	return nil
}
