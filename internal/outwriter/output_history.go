package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// shortHashLen is how many characters of a commit hash the table shows.
const shortHashLen = 8

// historyFixedWidth is the space taken by the non-path history columns.
const historyFixedWidth = 75

// PrintHistory outputs the history records, dispatching based on the output format configured.
func PrintHistory(records []schema.HistoryRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForHistory(w, records)
		}, "Wrote JSON history"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForHistory(w, records)
		}, "Wrote CSV history"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, records, cfg.UseColors)
		}, "Wrote history table"); err != nil {
			return fmt.Errorf("error writing history table output: %w", err)
		}
	}
	return nil
}

// writeHistoryTable prints one row per commit and file.
func writeHistoryTable(w io.Writer, records []schema.HistoryRecord, useColors bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Commit", "Author", "File", "Score", "Prev", "Delta", "Impact", "+/-", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(historyFixedWidth)
	var data [][]string
	for _, r := range records {
		status := string(r.Status)
		if useColors {
			status = contract.GetColorStatus(r.Status)
		}
		data = append(data, []string{
			shortHash(r.Commit),
			r.Email,
			contract.TruncatePath(r.File, pathWidth),
			fmtScore(r.Score),
			fmtScore(r.PrevScore),
			fmtScore(r.Delta),
			r.Impact,
			"+" + strconv.Itoa(r.Insert) + "/-" + strconv.Itoa(r.Delete),
			status,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Scored %d file changes.\n", len(records))
	return nil
}

// shortHash abbreviates a commit hash for display.
func shortHash(commit string) string {
	if len(commit) > shortHashLen {
		return commit[:shortHashLen]
	}
	return commit
}
