package core

import (
	"context"
	"fmt"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

// FileProgressFunc is called after each file is resolved, with its 1-based position.
type FileProgressFunc func(index, total int, report FileReport)

// RunResultBuilder builds the result of one hook invocation using a builder pattern.
type RunResultBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	client   contract.GitClient
	resolver *Resolver
	ledger   contract.ScoreLedger
	onFile   FileProgressFunc
	files    []string
	scoreRef string // revision the files are scored at; "" = working tree
	prevRef  string // revision the regression policy compares against
	commitID string
	author   schema.Identity
	reports  []FileReport
	previous map[string]float64
	result   *schema.CommitResult
	update   *schema.LedgerUpdate
	noFiles  bool
}

// NewRunResultBuilder creates a new builder for run results.
func NewRunResultBuilder(ctx context.Context, cfg *contract.Config, client contract.GitClient, runner contract.LinterRunner, ledger contract.ScoreLedger) *RunResultBuilder {
	return &RunResultBuilder{
		ctx:      ctx,
		cfg:      cfg,
		client:   client,
		resolver: NewResolver(cfg, client, runner),
		ledger:   ledger,
	}
}

// WithProgress registers a callback invoked as each file is resolved.
func (b *RunResultBuilder) WithProgress(fn FileProgressFunc) *RunResultBuilder {
	b.onFile = fn
	return b
}

// WithCache makes file resolution reuse cached linter results. A nil cache is ignored.
func (b *RunResultBuilder) WithCache(cache contract.CacheStore) *RunResultBuilder {
	if cache != nil {
		b.resolver.WithCache(cache)
	}
	return b
}

// ValidatePrerequisites collects the changed files, the revision and the author.
func (b *RunResultBuilder) ValidatePrerequisites() (*RunResultBuilder, error) {
	var changed []string
	var err error

	if b.cfg.BaseRef == "" {
		// Pre-commit: staged changes, linted as they are in the working tree
		changed, err = b.client.GetStagedFiles(b.ctx, b.cfg.RepoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list staged files: %w. Run the hook from inside the repository", err)
		}
		b.commitID, err = b.client.ResolveCommit(b.ctx, b.cfg.RepoPath, "HEAD")
		if err != nil {
			return nil, err
		}
		b.prevRef = b.commitID
	} else {
		changed, err = b.client.GetChangedFilesBetweenRefs(b.ctx, b.cfg.RepoPath, b.cfg.BaseRef, b.cfg.TargetRef)
		if err != nil {
			return nil, fmt.Errorf("failed to get changed files between %q and %q: %w. Verify both refs exist in the repository", b.cfg.BaseRef, b.cfg.TargetRef, err)
		}
		b.commitID, err = b.client.ResolveCommit(b.ctx, b.cfg.RepoPath, b.cfg.TargetRef)
		if err != nil {
			return nil, err
		}
		b.scoreRef = b.commitID
		b.prevRef = b.cfg.BaseRef
	}

	b.files = filterChangedFiles(changed, b.cfg.Excludes)
	if len(b.files) == 0 {
		b.noFiles = true
		result := Aggregate(nil, b.cfg.Limit, b.cfg.Policy, nil)
		result.CommitID = b.commitID
		b.result = &result
		return b, nil
	}

	b.author, err = b.client.GetAuthorIdent(b.ctx, b.cfg.RepoPath)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ResolveFiles scores every changed file in discovery order.
func (b *RunResultBuilder) ResolveFiles() (*RunResultBuilder, error) {
	b.reports = make([]FileReport, 0, len(b.files))
	for i, path := range b.files {
		report, err := b.resolver.Resolve(b.ctx, path, b.scoreRef)
		if err != nil {
			return nil, err
		}
		b.reports = append(b.reports, report)
		if b.onFile != nil {
			b.onFile(i+1, len(b.files), report)
		}
	}
	b.noFiles = !anyApplicable(b.reports)
	return b, nil
}

// ResolvePrevious scores the files at the preceding revision for the regression policy.
func (b *RunResultBuilder) ResolvePrevious() (*RunResultBuilder, error) {
	b.previous = map[string]float64{}
	if b.cfg.Policy != schema.RegressionPolicy || b.prevRef == schema.EmptyTreeHash {
		return b, nil
	}
	for _, report := range b.reports {
		if report.Skipped {
			continue
		}
		prev, err := b.resolver.Resolve(b.ctx, report.Path, b.prevRef)
		if err != nil {
			return nil, err
		}
		if !prev.Skipped {
			b.previous[report.Path] = prev.Score
		}
	}
	return b, nil
}

// Aggregate computes the commit decision from the resolved files.
func (b *RunResultBuilder) Aggregate() *RunResultBuilder {
	scores := make([]schema.FileScore, len(b.reports))
	for i, r := range b.reports {
		scores[i] = r.FileScore
	}
	result := Aggregate(scores, b.cfg.Limit, b.cfg.Policy, b.previous)
	result.CommitID = b.commitID
	result.AuthorName = b.author.Name
	result.AuthorEmail = b.author.Email
	b.result = &result
	return b
}

// MergeLedger folds the commit into the persisted repository score.
func (b *RunResultBuilder) MergeLedger() (*RunResultBuilder, error) {
	if b.ledger == nil {
		return b, nil
	}
	result := *b.result
	update, err := b.ledger.Update(func(current schema.RepositoryScore) schema.LedgerUpdate {
		return Merge(current, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update repository score: %w", err)
	}
	b.update = &update
	return b, nil
}

// GetResult returns the built CommitResult.
func (b *RunResultBuilder) GetResult() *schema.CommitResult {
	return b.result
}

// GetUpdate returns the ledger update, or nil when the ledger was not touched.
func (b *RunResultBuilder) GetUpdate() *schema.LedgerUpdate {
	return b.update
}

// GetReports returns the resolved files with their linter output.
func (b *RunResultBuilder) GetReports() []FileReport {
	return b.reports
}

// Revisions returns the revision the files were scored at ("" = working tree)
// and the revision they are compared against.
func (b *RunResultBuilder) Revisions() (scoreRef string, prevRef string) {
	return b.scoreRef, b.prevRef
}

// NoFiles reports whether the invocation had no applicable files at all.
// Nothing is merged, audited or recorded for such an invocation.
func (b *RunResultBuilder) NoFiles() bool {
	return b.noFiles
}

// filterChangedFiles filters the list of changed files based on excludes.
func filterChangedFiles(files []string, excludes []string) []string {
	filtered := make([]string, 0, len(files))
	for _, f := range files {
		if !contract.ShouldIgnore(f, excludes) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// anyApplicable reports whether some file had a linter, even if it was skipped as empty.
func anyApplicable(reports []FileReport) bool {
	for _, r := range reports {
		if r.SkipReason != schema.NotApplicableSkip {
			return true
		}
	}
	return false
}
