// Package ledger persists the running repository score in a single-value text file.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

// lockSuffix names the sidecar file the read-modify-write locks.
const lockSuffix = ".lock"

// File is a ScoreLedger backed by one file holding a decimal float.
type File struct {
	path         string
	defaultValue float64
}

var _ contract.ScoreLedger = &File{} // Compile-time check

// NewFile creates a ledger at path that reads as defaultValue until first written.
func NewFile(path string, defaultValue float64) *File {
	return &File{path: path, defaultValue: defaultValue}
}

// Path returns the location of the ledger file.
func (f *File) Path() string {
	return f.path
}

// Load implements the ScoreLedger interface.
// A missing or corrupt file yields the default value rather than an error.
func (f *File) Load() (schema.RepositoryScore, error) {
	return schema.RepositoryScore{Value: f.read()}, nil
}

// Update implements the ScoreLedger interface.
func (f *File) Update(merge func(schema.RepositoryScore) schema.LedgerUpdate) (schema.LedgerUpdate, error) {
	unlock, err := lockFile(f.path + lockSuffix)
	if err != nil {
		return schema.LedgerUpdate{}, fmt.Errorf("failed to lock %s: %w. Check that the directory is writable", f.path, err)
	}
	defer unlock()

	update := merge(schema.RepositoryScore{Value: f.read()})
	if err := writeAtomic(f.path, update.Current.Value); err != nil {
		return schema.LedgerUpdate{}, err
	}
	return update, nil
}

// Reset implements the ScoreLedger interface.
func (f *File) Reset(value float64) error {
	unlock, err := lockFile(f.path + lockSuffix)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w. Check that the directory is writable", f.path, err)
	}
	defer unlock()
	return writeAtomic(f.path, value)
}

// read returns the stored value, or the default when the file cannot be used.
func (f *File) read() float64 {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f.defaultValue
	} else if err != nil {
		contract.LogWarn("Cannot read repository score, using default", err)
		return f.defaultValue
	}
	value, err := parseValue(data)
	if err != nil {
		contract.LogWarn("Repository score file is corrupt, using default", err)
		return f.defaultValue
	}
	return value
}

// parseValue reads a whole-file decimal float. Non-finite values are corrupt.
func parseValue(data []byte) (float64, error) {
	text := strings.TrimSpace(string(data))
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", text, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid score %q: not a finite number", text)
	}
	return value, nil
}

// formatValue writes the shortest representation that parses back to the same bits.
func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// writeAtomic replaces path with value through a synced temp file in the same directory.
func writeAtomic(path string, value float64) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write repository score: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(formatValue(value) + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write repository score: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync repository score: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write repository score: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
