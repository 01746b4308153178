package schema

import "time"

// SubmitRecord is the payload the remote scoring-history service accepts.
type SubmitRecord struct {
	Score  float64 `json:"score"`
	Commit string  `json:"commit"`
	Email  string  `json:"email"`
	Status Status  `json:"status"`
	File   string  `json:"file"`
	Repo   string  `json:"repo"`
	Insert int     `json:"insert"`
	Delete int     `json:"delete"`
	Impact string  `json:"impact,omitempty"` // history mode only
}

// HistoryRecord is one scored file of one commit in history mode.
type HistoryRecord struct {
	Commit     string  `json:"commit"`
	PrevCommit string  `json:"prev_commit"`
	Email      string  `json:"email"`
	File       string  `json:"file"`
	Score      float64 `json:"score"`
	PrevScore  float64 `json:"prev_score"`
	Delta      float64 `json:"delta"`
	Status     Status  `json:"status"`
	Impact     string  `json:"impact"`
	Repo       string  `json:"repo"`
	Insert     int     `json:"insert"`
	Delete     int     `json:"delete"`
}

// ToSubmitRecord converts a history row into the remote payload.
func (r HistoryRecord) ToSubmitRecord() SubmitRecord {
	return SubmitRecord{
		Score:  r.Delta,
		Commit: r.Commit,
		Email:  r.Email,
		Status: r.Status,
		File:   r.File,
		Repo:   r.Repo,
		Insert: r.Insert,
		Delete: r.Delete,
		Impact: r.Impact,
	}
}

// RunRecord represents a row from the commitscore_runs table.
type RunRecord struct {
	RunID          int64     `json:"run_id"`
	RunUUID        string    `json:"run_uuid"`
	RunTime        time.Time `json:"run_time"`
	CommitID       string    `json:"commit"`
	AuthorEmail    string    `json:"email"`
	Policy         string    `json:"policy"`
	ScoreLimit     float64   `json:"limit"`
	AggregateScore float64   `json:"score"`
	RepoScore      float64   `json:"repo_score"`
	Impact         float64   `json:"impact"`
	Status         string    `json:"status"`
	ScoredFiles    int32     `json:"scored_files"`
}

// FileScoreRecord represents a row from the commitscore_file_scores table.
type FileScoreRecord struct {
	RunID      int64   `json:"run_id"`
	FilePath   string  `json:"path"`
	Linter     string  `json:"linter"`
	Score      float64 `json:"score"`
	Status     string  `json:"status"`
	SkipReason *string `json:"skip_reason,omitempty"`
}
