package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/commitscore/schema"
)

// writeJSONResultsForHistory writes the records as one JSON array.
func writeJSONResultsForHistory(w io.Writer, records []schema.HistoryRecord) error {
	if records == nil {
		records = []schema.HistoryRecord{}
	}
	return writeJSON(w, records)
}

// writeCSVResultsForHistory writes one CSV row per history record.
func writeCSVResultsForHistory(w io.Writer, records []schema.HistoryRecord) error {
	header := []string{
		"commit", "prev_commit", "email", "file", "score", "prev_score",
		"delta", "status", "impact", "repo", "insert", "delete",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			row := []string{
				r.Commit,
				r.PrevCommit,
				r.Email,
				r.File,
				fmtScore(r.Score),
				fmtScore(r.PrevScore),
				fmtScore(r.Delta),
				string(r.Status),
				r.Impact,
				r.Repo,
				strconv.Itoa(r.Insert),
				strconv.Itoa(r.Delete),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
