package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/commitscore/schema"
	log "github.com/sirupsen/logrus"
)

// Color variables for console output.
var (
	PassedColor  = color.New(color.FgGreen, color.Bold) // PassedColor marks an accepted file or commit.
	FailedColor  = color.New(color.FgRed, color.Bold)   // FailedColor marks a rejected file or commit.
	SkippedColor = color.New(color.FgCyan)              // SkippedColor marks a file that was not scored.
)

// GetColorStatus returns a colored status word for console output.
func GetColorStatus(status schema.Status) string {
	text := string(status)

	switch status {
	case schema.PassedStatus, schema.HistorySuccess:
		return PassedColor.Sprint(text)
	case schema.FailedStatus, schema.HistoryFailure:
		return FailedColor.Sprint(text)
	default:
		return SkippedColor.Sprint(text)
	}
}

// StatusOf maps a pass/fail decision to a status word.
func StatusOf(passed bool) schema.Status {
	if passed {
		return schema.PassedStatus
	}
	return schema.FailedStatus
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "migrations/", "*_pb2.py".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *_pb2.py)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// SetupLogging configures the shared logger. Verbose raises the level to debug.
func SetupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.WithError(err).Error("Fatal " + msg)
	os.Exit(ExitCodeOf(err))
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	log.WithError(err).Warn(msg)
}

// LogDebug logs a diagnostic message; detail is attached when non-empty.
func LogDebug(msg string, detail string) {
	if detail == "" {
		log.Debug(msg)
		return
	}
	log.WithField("detail", detail).Debug(msg)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitscore_history.db"
	}
	return filepath.Join(homeDir, ".commitscore_history.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for lint result caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitscore_cache.db"
	}
	return filepath.Join(homeDir, ".commitscore_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// RepoName returns the display name of a repository from its root path.
func RepoName(repoRoot string) string {
	return filepath.Base(filepath.Clean(repoRoot))
}
