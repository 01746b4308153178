package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

const (
	// cacheVersion invalidates cached linter results when their layout changes.
	cacheVersion = 1

	// cacheMaxAge bounds how long a cached linter result is trusted.
	cacheMaxAge = 7 * 24 * time.Hour
)

// FileReport is a resolved file score plus the linter output worth showing.
type FileReport struct {
	schema.FileScore
	Output []byte // linter output of a failed file
}

// Resolver turns one changed file into a FileScore.
type Resolver struct {
	client         contract.GitClient
	runner         contract.LinterRunner
	linters        *LinterTable
	repoPath       string
	limit          float64
	suppressReport bool
	tempDir        string // "" = os.TempDir()
	cache          contract.CacheStore
	rcDigest       string // digest of the pylintrc, part of every cache key
}

// cachedLint is the cached outcome of linting one file.
type cachedLint struct {
	Output []byte `json:"output"`
	Report []byte `json:"report,omitempty"` // only stored for failed files
}

// NewResolver creates a resolver for the repository in cfg.
func NewResolver(cfg *contract.Config, client contract.GitClient, runner contract.LinterRunner) *Resolver {
	r := &Resolver{
		client:         client,
		runner:         runner,
		linters:        NewLinterTable(cfg),
		repoPath:       cfg.RepoPath,
		limit:          cfg.Limit,
		suppressReport: cfg.SuppressReport,
	}
	if cfg.PylintrcPath != "" {
		if data, err := os.ReadFile(cfg.PylintrcPath); err == nil {
			sum := sha256.Sum256(data)
			r.rcDigest = hex.EncodeToString(sum[:])
		}
	}
	return r
}

// WithCache makes the resolver reuse linter results stored in cache.
func (r *Resolver) WithCache(cache contract.CacheStore) *Resolver {
	r.cache = cache
	return r
}

// fileContent is a changed file as the linter will see it.
type fileContent struct {
	data    []byte
	missing bool
	onDisk  string // path to hand to the linter when no materialization is needed
}

// Resolve scores path at ref. An empty ref scores the working tree copy.
// Errors wrapping contract.ErrLinterUnavailable must abort the run.
func (r *Resolver) Resolve(ctx context.Context, path string, ref string) (FileReport, error) {
	fc, err := r.load(ctx, path, ref)
	if err != nil {
		return FileReport{}, err
	}

	linter, ok := r.linters.Lookup(path, fc.data)
	if !ok {
		return skipped(path, "", schema.NotApplicableSkip), nil
	}
	if fc.missing || len(fc.data) == 0 {
		return skipped(path, linter.Kind(), schema.EmptyFileSkip), nil
	}
	if len(bytes.TrimSpace(fc.data)) == 0 && linter.IsInitMarker(filepath.Base(path)) {
		return skipped(path, linter.Kind(), schema.EmptyFileSkip), nil
	}

	key := r.cacheKey(linter, path, fc.data)
	if report, ok := r.fromCache(key, path, linter, fc.data); ok {
		return report, nil
	}

	lintPath := fc.onDisk
	if lintPath == "" {
		tmp, cleanup, err := r.materialize(path, fc.data)
		if err != nil {
			return FileReport{}, err
		}
		defer cleanup()
		lintPath = tmp
	}

	out, err := r.runner.Run(ctx, linter.Command(), linter.Args(), lintPath)
	if err != nil {
		return FileReport{}, fmt.Errorf("%s on %s: %w", linter.Kind(), path, err)
	}

	score := linter.Score(out, fc.data)
	report := FileReport{FileScore: schema.FileScore{
		Path:   path,
		Score:  score,
		Status: contract.StatusOf(score >= r.limit),
		Linter: linter.Kind(),
	}}
	if report.Status == schema.FailedStatus {
		report.Output = r.failureOutput(ctx, linter, lintPath, out)
	}
	r.toCache(key, cachedLint{Output: out, Report: report.Output})
	return report, nil
}

// cacheKey identifies one linter invocation on one file content.
func (r *Resolver) cacheKey(linter Linter, path string, content []byte) string {
	if r.cache == nil {
		return ""
	}
	h := sha256.New()
	for _, part := range []string{
		string(linter.Kind()),
		linter.Command(),
		fmt.Sprint(linter.Args()),
		strconv.FormatBool(r.suppressReport),
		r.rcDigest,
		path,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// fromCache rebuilds a report from a cached linter result. A failed file
// whose report was never stored counts as a miss.
func (r *Resolver) fromCache(key string, path string, linter Linter, content []byte) (FileReport, bool) {
	if r.cache == nil {
		return FileReport{}, false
	}
	value, version, ts, err := r.cache.Get(key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			contract.LogDebug("Cannot read lint cache", err.Error())
		}
		return FileReport{}, false
	}
	if version != cacheVersion || time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return FileReport{}, false
	}
	var entry cachedLint
	if err := json.Unmarshal(value, &entry); err != nil {
		return FileReport{}, false
	}

	score := linter.Score(entry.Output, content)
	report := FileReport{FileScore: schema.FileScore{
		Path:   path,
		Score:  score,
		Status: contract.StatusOf(score >= r.limit),
		Linter: linter.Kind(),
	}}
	if report.Status == schema.FailedStatus {
		if entry.Report == nil {
			return FileReport{}, false
		}
		report.Output = entry.Report
	}
	return report, true
}

// toCache stores a linter result. Failures only log.
func (r *Resolver) toCache(key string, entry cachedLint) {
	if r.cache == nil {
		return
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.cache.Set(key, value, cacheVersion, time.Now().Unix()); err != nil {
		contract.LogDebug("Cannot write lint cache", err.Error())
	}
}

// load reads the content of path at ref, or from the working tree.
func (r *Resolver) load(ctx context.Context, path string, ref string) (fileContent, error) {
	if ref == "" {
		full := filepath.Join(r.repoPath, path)
		data, err := os.ReadFile(full)
		if errors.Is(err, fs.ErrNotExist) {
			return fileContent{missing: true}, nil
		} else if err != nil {
			return fileContent{}, fmt.Errorf("failed to read %s: %w", full, err)
		}
		return fileContent{data: data, onDisk: full}, nil
	}

	data, err := r.client.ShowFileAtRef(ctx, r.repoPath, ref, path)
	if errors.Is(err, contract.ErrNotAtRevision) {
		return fileContent{missing: true}, nil
	} else if err != nil {
		return fileContent{}, fmt.Errorf("failed to read %s at %s: %w", path, ref, err)
	}
	return fileContent{data: data}, nil
}

// materialize writes content to a uniquely named temp file that keeps the
// extension of path, so linters still recognize the file type.
func (r *Resolver) materialize(path string, content []byte) (string, func(), error) {
	f, err := os.CreateTemp(r.tempDir, "commitscore-*"+filepath.Ext(path))
	if err != nil {
		return "", nil, fmt.Errorf("failed to materialize %s: %w", path, err)
	}
	name := f.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to materialize %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to materialize %s: %w", path, err)
	}
	return name, cleanup, nil
}

// failureOutput returns the output to show for a failed file, re-running the
// linter without its extended report when configured.
func (r *Resolver) failureOutput(ctx context.Context, linter Linter, lintPath string, first []byte) []byte {
	if !r.suppressReport || linter.ReportArgs() == nil {
		return first
	}
	args := append(append([]string{}, linter.Args()...), linter.ReportArgs()...)
	out, err := r.runner.Run(ctx, linter.Command(), args, lintPath)
	if err != nil {
		contract.LogWarn("Cannot re-run linter without report", err)
		return first
	}
	return out
}

func skipped(path string, kind schema.LinterKind, reason schema.SkipReason) FileReport {
	return FileReport{FileScore: schema.FileScore{
		Path:       path,
		Skipped:    true,
		SkipReason: reason,
		Status:     schema.SkippedStatus,
		Linter:     kind,
	}}
}
