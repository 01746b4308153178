// Package outwriter has output and writer logic.
package outwriter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

// genericLinterName is shown for skipped files that no linter claims.
const genericLinterName = "lint"

// OutWriter prints the console report of a hook invocation.
// Report lines are user output, so they bypass the logger.
type OutWriter struct {
	w         io.Writer
	useColors bool
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter(w io.Writer, useColors bool) *OutWriter {
	return &OutWriter{w: w, useColors: useColors}
}

// WriteFileLine prints the outcome of one file, followed by the linter
// output when the file failed.
func (ow *OutWriter) WriteFileLine(index, total int, fs schema.FileScore, output []byte) {
	if fs.Skipped {
		name := string(fs.Linter)
		if name == "" {
			name = genericLinterName
		}
		fmt.Fprintf(ow.w, "Skipping %s on %s (%s)..\t%s\n", name, fs.Path, fs.SkipReason, ow.status(schema.SkippedStatus))
		return
	}

	fmt.Fprintf(ow.w, "Running %s on %s (file %d/%d)..\t%.2f/10.00\t%s\n",
		fs.Linter, fs.Path, index, total, fs.Score, ow.status(fs.Status))
	if len(output) > 0 {
		_, _ = ow.w.Write(output)
		if !bytes.HasSuffix(output, []byte("\n")) {
			fmt.Fprintln(ow.w)
		}
	}
}

// WriteNoFiles prints the notice for an invocation without lintable files.
func (ow *OutWriter) WriteNoFiles() {
	fmt.Fprintln(ow.w, "No applicable files to lint.")
}

// WriteSummary prints the commit mean and its impact on the repository score.
func (ow *OutWriter) WriteSummary(result schema.CommitResult, update schema.LedgerUpdate) {
	fmt.Fprintln(ow.w)
	fmt.Fprintf(ow.w, "Total score %.2f\n", result.AggregateScore)
	fmt.Fprintf(ow.w, "Your score made an impact of %.2f\n", update.Impact)
	fmt.Fprintf(ow.w, "Commit %s\n", ow.status(result.Status))
}

// status renders a status word, coloured when enabled.
func (ow *OutWriter) status(s schema.Status) string {
	if !ow.useColors {
		return string(s)
	}
	return contract.GetColorStatus(s)
}
