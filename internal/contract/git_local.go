package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/huangsam/commitscore/schema"
)

// commitLogFormat separates the fields of one git log entry.
const commitLogFormat = "--pretty=format:%H|%an|%ae"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveCommit implements the GitClient interface.
// A repository without commits has no HEAD, so the empty tree stands in for it.
func (c *LocalGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		if ref == "HEAD" {
			return schema.EmptyTreeHash, nil
		}
		return "", fmt.Errorf("cannot resolve revision %q: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GetAuthorIdent implements the GitClient interface.
func (c *LocalGitClient) GetAuthorIdent(ctx context.Context, repoPath string) (schema.Identity, error) {
	out, err := c.Run(ctx, repoPath, "var", "GIT_AUTHOR_IDENT")
	if err != nil {
		return schema.Identity{}, fmt.Errorf("cannot determine author identity: %w. Set user.name and user.email with 'git config'", err)
	}
	return ParseIdent(string(out)), nil
}

// ParseIdent splits a "Name <email> timestamp zone" ident line.
func ParseIdent(line string) schema.Identity {
	line = strings.TrimSpace(line)
	start := strings.Index(line, "<")
	end := strings.LastIndex(line, ">")
	if start < 0 || end < start {
		return schema.Identity{Name: line}
	}
	return schema.Identity{
		Name:  strings.TrimSpace(line[:start]),
		Email: strings.TrimSpace(line[start+1 : end]),
	}
}

// GetStagedFiles implements the GitClient interface.
// Only added and modified entries are returned; deletions and renames are not linted.
func (c *LocalGitClient) GetStagedFiles(ctx context.Context, repoPath string) ([]string, error) {
	head, err := c.ResolveCommit(ctx, repoPath, "HEAD")
	if err != nil {
		return nil, err
	}
	out, err := c.Run(ctx, repoPath, "diff-index", "--cached", "--name-status", "-z", head)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(string(out)), nil
}

// parseNameStatus keeps the A and M entries of NUL-separated --name-status
// output. Renames and copies carry two paths after their status.
func parseNameStatus(out string) []string {
	files := []string{}
	fields := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
	for i := 0; i+1 < len(fields); i += 2 {
		status := fields[i]
		switch {
		case status == "A" || status == "M":
			files = append(files, fields[i+1])
		case strings.HasPrefix(status, "R") || strings.HasPrefix(status, "C"):
			i++
		}
	}
	return files
}

// splitNulPaths splits NUL-terminated path output such as that of --name-only -z.
func splitNulPaths(out string) []string {
	files := []string{}
	for path := range strings.SplitSeq(out, "\x00") {
		if path != "" {
			files = append(files, path)
		}
	}
	return files
}

// GetChangedFilesBetweenRefs implements the GitClient interface.
// It returns files added or modified between baseRef and targetRef. The two
// revisions are passed separately so that the empty tree can be a base.
func (c *LocalGitClient) GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error) {
	args := []string{
		"diff", "--name-only", "-z", "--diff-filter=AM",
		baseRef, targetRef,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitNulPaths(string(out)), nil
}

// ShowFileAtRef implements the GitClient interface.
// An empty ref reads the staged content from the index.
func (c *LocalGitClient) ShowFileAtRef(ctx context.Context, repoPath string, ref string, path string) ([]byte, error) {
	object := ref + ":" + path
	if _, err := c.Run(ctx, repoPath, "cat-file", "-e", object); err != nil {
		return nil, fmt.Errorf("%s at %q: %w", path, ref, ErrNotAtRevision)
	}
	return c.Run(ctx, repoPath, "show", object)
}

// GetRecentCommits implements the GitClient interface.
func (c *LocalGitClient) GetRecentCommits(ctx context.Context, repoPath string, n int) ([]schema.CommitInfo, error) {
	out, err := c.Run(ctx, repoPath, "log", "-n", strconv.Itoa(n), commitLogFormat)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(string(out)), nil
}

// parseCommitLog parses the output produced with commitLogFormat.
func parseCommitLog(out string) []schema.CommitInfo {
	commits := []schema.CommitInfo{}
	for line := range strings.SplitSeq(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "|", 3)
		if len(parts) != 3 || parts[0] == "" {
			continue
		}
		commits = append(commits, schema.CommitInfo{Commit: parts[0], User: parts[1], Email: parts[2]})
	}
	return commits
}

// GetDiffStat implements the GitClient interface.
// An empty targetRef compares baseRef against the index.
func (c *LocalGitClient) GetDiffStat(ctx context.Context, repoPath string, baseRef string, targetRef string, path string) (schema.DiffStat, error) {
	args := []string{"diff", "--numstat", baseRef, targetRef, "--", path}
	if targetRef == "" {
		args = []string{"diff", "--numstat", "--cached", baseRef, "--", path}
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return schema.DiffStat{}, err
	}
	return parseNumstat(string(out)), nil
}

// parseNumstat sums --numstat lines. Binary files report "-" and count as zero.
func parseNumstat(out string) schema.DiffStat {
	var stat schema.DiffStat
	for line := range strings.SplitSeq(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if added, err := strconv.Atoi(fields[0]); err == nil {
			stat.Insertions += added
		}
		if deleted, err := strconv.Atoi(fields[1]); err == nil {
			stat.Deletions += deleted
		}
	}
	return stat
}
