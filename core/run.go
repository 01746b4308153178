package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/internal/outwriter"
	"github.com/huangsam/commitscore/schema"
)

// Collaborators bundles the external systems one hook invocation talks to.
type Collaborators struct {
	Git       contract.GitClient
	Linter    contract.LinterRunner
	Ledger    contract.ScoreLedger  // nil = repository score is not tracked
	Submitter contract.Submitter    // nil = nothing is pushed
	Store     contract.StoreManager // nil = runs are not recorded
	Out       io.Writer
}

// ExecuteRun scores the changed files of one commit, merges the result into the
// repository score and reports it. The returned error carries the exit code:
// contract.ExitFailed for a rejected commit and contract.ExitUnavailable when
// the linter cannot be launched.
func ExecuteRun(ctx context.Context, cfg *contract.Config, deps Collaborators) (*schema.CommitResult, error) {
	ow := outwriter.NewOutWriter(deps.Out, cfg.UseColors)
	builder := NewRunResultBuilder(ctx, cfg, deps.Git, deps.Linter, deps.Ledger).
		WithProgress(func(index, total int, report FileReport) {
			ow.WriteFileLine(index, total, report.FileScore, report.Output)
		}).
		WithCache(cacheOf(deps.Store))

	if _, err := builder.ValidatePrerequisites(); err != nil {
		return nil, err
	}
	if !builder.NoFiles() {
		if _, err := builder.ResolveFiles(); err != nil {
			return nil, linterExitError(err)
		}
	}
	if builder.NoFiles() {
		ow.WriteNoFiles()
		builder.Aggregate()
		return builder.GetResult(), nil
	}

	if _, err := builder.ResolvePrevious(); err != nil {
		return nil, linterExitError(err)
	}
	builder.Aggregate()
	if _, err := builder.MergeLedger(); err != nil {
		return nil, err
	}

	result := builder.GetResult()
	update := schema.LedgerUpdate{}
	if u := builder.GetUpdate(); u != nil {
		update = *u
	}
	ow.WriteSummary(*result, update)

	author := schema.Identity{Name: result.AuthorName, Email: result.AuthorEmail}
	if cfg.AuditFile != "" {
		if err := outwriter.AppendAuditLine(cfg.AuditFile, author, *result, update); err != nil {
			contract.LogWarn("Cannot write audit log", err)
		}
	}
	recordRun(deps.Store, cfg, *result, update)

	scoreRef, prevRef := builder.Revisions()
	submitRun(ctx, cfg, deps, *result, scoreRef, prevRef)

	if rejected(cfg.Policy, *result) {
		return result, contract.NewExitError(contract.ExitFailed,
			fmt.Sprintf("commit %s scored %.2f against a limit of %.2f", result.Status, result.AggregateScore, cfg.Limit))
	}
	return result, nil
}

// rejected reports whether the hook must exit non-zero. Under the limit policy a
// single file below the limit rejects the commit even when the mean passes.
func rejected(policy schema.PolicyMode, result schema.CommitResult) bool {
	if !result.Passed() {
		return true
	}
	return policy != schema.RegressionPolicy && result.AnyFileFailed()
}

// linterExitError gives an unlaunchable linter its own exit code.
func linterExitError(err error) error {
	if errors.Is(err, contract.ErrLinterUnavailable) {
		return contract.WrapExitError(contract.ExitUnavailable, "cannot run linter", err)
	}
	return err
}

// cacheOf returns the lint cache of mgr, if any.
func cacheOf(mgr contract.StoreManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetCacheStore()
}

// recordRun stores the run in the history store. Failures only warn.
func recordRun(mgr contract.StoreManager, cfg *contract.Config, result schema.CommitResult, update schema.LedgerUpdate) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	run, files := toRunRecords(cfg, result, update, time.Now())
	if _, err := store.RecordRun(run, files); err != nil {
		contract.LogWarn("Cannot record run in history store", err)
	}
}

// toRunRecords converts a commit result into history store rows.
func toRunRecords(cfg *contract.Config, result schema.CommitResult, update schema.LedgerUpdate, now time.Time) (schema.RunRecord, []schema.FileScoreRecord) {
	run := schema.RunRecord{
		RunUUID:        uuid.NewString(),
		RunTime:        now,
		CommitID:       result.CommitID,
		AuthorEmail:    result.AuthorEmail,
		Policy:         string(result.Policy),
		ScoreLimit:     cfg.Limit,
		AggregateScore: result.AggregateScore,
		RepoScore:      update.Current.Value,
		Impact:         update.Impact,
		Status:         string(result.Status),
		ScoredFiles:    int32(result.ScoredFiles),
	}
	files := make([]schema.FileScoreRecord, 0, len(result.FileScores))
	for _, fs := range result.FileScores {
		rec := schema.FileScoreRecord{
			FilePath: fs.Path,
			Linter:   string(fs.Linter),
			Score:    fs.Score,
			Status:   string(fs.Status),
		}
		if fs.Skipped {
			reason := string(fs.SkipReason)
			rec.SkipReason = &reason
		}
		files = append(files, rec)
	}
	return run, files
}

// submitRun pushes the scored files to the remote service. It is best effort:
// failures are logged and never change the outcome of the run.
func submitRun(ctx context.Context, cfg *contract.Config, deps Collaborators, result schema.CommitResult, scoreRef, prevRef string) {
	if deps.Submitter == nil || cfg.RemoteURL == "" {
		return
	}
	repo := contract.RepoName(cfg.RepoPath)
	records := make([]schema.SubmitRecord, 0, result.ScoredFiles)
	for _, fs := range result.FileScores {
		if fs.Skipped {
			continue
		}
		stat, err := deps.Git.GetDiffStat(ctx, cfg.RepoPath, prevRef, scoreRef, fs.Path)
		if err != nil {
			contract.LogDebug("Cannot count changed lines of "+fs.Path, err.Error())
		}
		records = append(records, schema.SubmitRecord{
			Score:  fs.Score,
			Commit: result.CommitID,
			Email:  result.AuthorEmail,
			Status: result.Status,
			File:   fs.Path,
			Repo:   repo,
			Insert: stat.Insertions,
			Delete: stat.Deletions,
		})
	}

	if cfg.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RemoteTimeout)
		defer cancel()
	}
	if err := deps.Submitter.Submit(ctx, records); err != nil {
		contract.LogWarn("Cannot submit score to remote history", err)
	}
}
