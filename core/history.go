package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/internal/outwriter"
	"github.com/huangsam/commitscore/schema"
)

// ExecuteHistory scores the files touched by each of the most recent commits
// against their parent, prints the records and optionally submits them.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, deps Collaborators, submit bool) error {
	records, err := BuildHistory(ctx, cfg, deps.Git, deps.Linter, cacheOf(deps.Store))
	if err != nil {
		return linterExitError(err)
	}
	if err := outwriter.PrintHistory(records, cfg); err != nil {
		return err
	}
	if !submit || deps.Submitter == nil {
		return nil
	}

	payload := make([]schema.SubmitRecord, len(records))
	for i, r := range records {
		payload[i] = r.ToSubmitRecord()
	}
	if cfg.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RemoteTimeout)
		defer cancel()
	}
	if err := deps.Submitter.Submit(ctx, payload); err != nil {
		contract.LogWarn("Cannot submit history to remote service", err)
	}
	return nil
}

// BuildHistory walks the last cfg.Commits commits, newest first. Every file a
// commit changed that has a linter is scored at the commit and at its
// predecessor; the difference is the delta. The oldest commit has no
// predecessor in the window and yields no records. A nil cache disables caching.
func BuildHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, runner contract.LinterRunner, cache contract.CacheStore) ([]schema.HistoryRecord, error) {
	commits, err := client.GetRecentCommits(ctx, cfg.RepoPath, cfg.Commits)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent commits: %w", err)
	}

	quiet := cfg.Clone()
	quiet.SuppressReport = false
	resolver := NewResolver(quiet, client, runner)
	if cache != nil {
		resolver.WithCache(cache)
	}
	repo := contract.RepoName(cfg.RepoPath)

	records := []schema.HistoryRecord{}
	for i := 0; i+1 < len(commits); i++ {
		commit, prev := commits[i], commits[i+1]
		changed, err := client.GetChangedFilesBetweenRefs(ctx, cfg.RepoPath, prev.Commit, commit.Commit)
		if err != nil {
			return nil, fmt.Errorf("failed to list files changed by %s: %w", commit.Commit, err)
		}

		for _, path := range filterChangedFiles(changed, cfg.Excludes) {
			current, err := resolver.Resolve(ctx, path, commit.Commit)
			if err != nil {
				return nil, err
			}
			if current.SkipReason == schema.NotApplicableSkip {
				continue
			}
			before, err := resolver.Resolve(ctx, path, prev.Commit)
			if err != nil {
				return nil, err
			}

			stat, err := client.GetDiffStat(ctx, cfg.RepoPath, prev.Commit, commit.Commit, path)
			if err != nil {
				contract.LogDebug("Cannot count changed lines of "+path, err.Error())
			}

			delta := current.Score - before.Score
			records = append(records, schema.HistoryRecord{
				Commit:     commit.Commit,
				PrevCommit: prev.Commit,
				Email:      commit.Email,
				File:       path,
				Score:      current.Score,
				PrevScore:  before.Score,
				Delta:      delta,
				Status:     historyStatus(delta),
				Impact:     formatImpact(delta),
				Repo:       repo,
				Insert:     stat.Insertions,
				Delete:     stat.Deletions,
			})
		}
	}
	return records, nil
}

// historyStatus marks a change that did not lower the file score as a success.
func historyStatus(delta float64) schema.Status {
	if delta >= 0 {
		return schema.HistorySuccess
	}
	return schema.HistoryFailure
}

// formatImpact renders a delta on the 10-point scale as a percentage.
func formatImpact(delta float64) string {
	return strconv.FormatFloat(delta*10, 'f', 2, 64) + "%"
}
