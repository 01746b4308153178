package core

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

// Linter is one linter family: how to invoke it and how to turn its output into a score.
type Linter interface {
	Kind() schema.LinterKind
	Command() string
	Args() []string
	// ReportArgs are extra arguments that suppress the extended report, or nil.
	ReportArgs() []string
	Score(output []byte, content []byte) float64
	// IsInitMarker reports whether a whitespace-only file with this name is an
	// allowed empty package marker.
	IsInitMarker(name string) bool
}

// PylintLinter scores Python files from pylint's rating line.
type PylintLinter struct {
	command string
	params  []string
}

var _ Linter = &PylintLinter{} // Compile-time check

// NewPylintLinter creates a pylint variant with the given command and parameters.
func NewPylintLinter(command string, params []string) *PylintLinter {
	return &PylintLinter{command: command, params: params}
}

// Kind implements the Linter interface.
func (l *PylintLinter) Kind() schema.LinterKind { return schema.PylintKind }

// Command implements the Linter interface.
func (l *PylintLinter) Command() string { return l.command }

// Args implements the Linter interface.
func (l *PylintLinter) Args() []string { return l.params }

// ReportArgs implements the Linter interface.
func (l *PylintLinter) ReportArgs() []string { return []string{"--reports=n"} }

// Score implements the Linter interface.
func (l *PylintLinter) Score(output []byte, _ []byte) float64 { return ParseRating(output) }

// IsInitMarker implements the Linter interface.
func (l *PylintLinter) IsInitMarker(name string) bool { return name == "__init__.py" }

// GolintLinter scores Go files by warning density.
type GolintLinter struct {
	command string
}

var _ Linter = &GolintLinter{} // Compile-time check

// NewGolintLinter creates a golint variant with the given command.
func NewGolintLinter(command string) *GolintLinter {
	return &GolintLinter{command: command}
}

// Kind implements the Linter interface.
func (l *GolintLinter) Kind() schema.LinterKind { return schema.GolintKind }

// Command implements the Linter interface.
func (l *GolintLinter) Command() string { return l.command }

// Args implements the Linter interface.
func (l *GolintLinter) Args() []string { return nil }

// ReportArgs implements the Linter interface.
func (l *GolintLinter) ReportArgs() []string { return nil }

// Score implements the Linter interface.
func (l *GolintLinter) Score(output []byte, content []byte) float64 {
	return ScoreFromWarnings(output, content)
}

// IsInitMarker implements the Linter interface.
func (l *GolintLinter) IsInitMarker(string) bool { return false }

// LinterTable maps file extensions to linter variants.
type LinterTable struct {
	byExt map[string]Linter
}

// NewLinterTable builds the extension table from the validated config.
func NewLinterTable(cfg *contract.Config) *LinterTable {
	pylint := NewPylintLinter(cfg.PylintCommand, cfg.PylintParams)
	golint := NewGolintLinter(cfg.GolintCommand)
	return &LinterTable{byExt: map[string]Linter{
		".py": pylint,
		".go": golint,
	}}
}

// Lookup returns the linter for path, falling back to the shebang of
// content for files without an extension.
func (t *LinterTable) Lookup(path string, content []byte) (Linter, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		l, ok := t.byExt[ext]
		return l, ok
	}
	if isPythonScript(content) {
		l, ok := t.byExt[".py"]
		return l, ok
	}
	return nil, false
}

// ForKind returns the registered linter of the given family.
func (t *LinterTable) ForKind(kind schema.LinterKind) (Linter, bool) {
	for _, l := range t.byExt {
		if l.Kind() == kind {
			return l, true
		}
	}
	return nil, false
}

// isPythonScript reports whether content starts with a shebang naming python.
func isPythonScript(content []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	if !scanner.Scan() {
		return false
	}
	first := scanner.Text()
	return strings.HasPrefix(first, "#!") && strings.Contains(first, "python")
}
