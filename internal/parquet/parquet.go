// Package parquet exports commitscore run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/commitscore/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single hook run.
// This struct maps to the commitscore_runs database table.
type Run struct {
	// RunID is the store-assigned identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID correlates the run with its log lines
	RunUUID string `parquet:"run_uuid,snappy"`

	// RunTime is when the hook ran (stored as TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	CommitID    string  `parquet:"commit_id,snappy"`
	AuthorEmail string  `parquet:"author_email,snappy"`
	Policy      string  `parquet:"policy,snappy"`
	ScoreLimit  float64 `parquet:"score_limit,snappy"`

	// AggregateScore is the mean score of the scored files
	AggregateScore float64 `parquet:"aggregate_score,snappy"`

	// RepoScore is the ledger value after the run
	RepoScore float64 `parquet:"repo_score,snappy"`

	Impact      float64 `parquet:"impact,snappy"`
	Status      string  `parquet:"status,snappy"`
	ScoredFiles int32   `parquet:"scored_files,snappy"`
}

// FileScore represents the outcome for one file of a run.
// This struct maps to the commitscore_file_scores database table.
type FileScore struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// FilePath is the repository-relative path of the file
	FilePath string `parquet:"file_path,snappy"`

	Linter string  `parquet:"linter,snappy"`
	Score  float64 `parquet:"score,snappy"`
	Status string  `parquet:"status,snappy"`

	// SkipReason is set for files that were not scored (nullable)
	SkipReason *string `parquet:"skip_reason,optional,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileScoresParquet writes a slice of FileScore structs to a Parquet file.
func WriteFileScoresParquet(data []FileScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using a schema derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:          record.RunID,
			RunUUID:        record.RunUUID,
			RunTime:        record.RunTime,
			CommitID:       record.CommitID,
			AuthorEmail:    record.AuthorEmail,
			Policy:         record.Policy,
			ScoreLimit:     record.ScoreLimit,
			AggregateScore: record.AggregateScore,
			RepoScore:      record.RepoScore,
			Impact:         record.Impact,
			Status:         record.Status,
			ScoredFiles:    record.ScoredFiles,
		}
	}
	return result
}

// ConvertFileScoreRecords converts schema.FileScoreRecord to FileScore for Parquet export.
func ConvertFileScoreRecords(records []schema.FileScoreRecord) []FileScore {
	result := make([]FileScore, len(records))
	for i, record := range records {
		result[i] = FileScore{
			RunID:      record.RunID,
			FilePath:   record.FilePath,
			Linter:     record.Linter,
			Score:      record.Score,
			Status:     record.Status,
			SkipReason: record.SkipReason,
		}
	}
	return result
}
