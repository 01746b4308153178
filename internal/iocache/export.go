package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/internal/parquet"
)

// ExecuteHistoryExport writes the run history held by mgr to Parquet files
// named after outputFile.
func ExecuteHistoryExport(mgr contract.StoreManager, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized. Set store-backend to sqlite, mysql or postgresql")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	fmt.Fprintf(w, "Total file records: %d\n", status.TableSizes[fileScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	files, err := store.GetAllFileScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve file scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	filesFile := outputFile + ".file_scores.parquet"
	if err := parquet.WriteFileScoresParquet(parquet.ConvertFileScoreRecords(files), filesFile); err != nil {
		return fmt.Errorf("failed to write file scores: %w", err)
	}
	fmt.Fprintf(w, "Exported %d file score records to: %s\n", len(files), filesFile)

	return nil
}
