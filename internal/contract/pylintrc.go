package contract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/ini.v1"
)

// pylintrcSection is the .pylintrc section that configures the hook.
const pylintrcSection = "pre-commit-hook"

// PylintrcOverrides holds the hook options found in a .pylintrc file.
type PylintrcOverrides struct {
	Command string
	Params  string
	Limit   *float64
}

// LoadPylintrcOverrides reads the [pre-commit-hook] section of a .pylintrc file.
// It returns nil without error when the file or the section does not exist.
func LoadPylintrcOverrides(path string) (*PylintrcOverrides, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	rc, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:           true,
		AllowPythonMultilineValues: true,
		SkipUnrecognizableLines:    true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w. Check that it is a valid INI file", path, err)
	}

	section, err := rc.GetSection(pylintrcSection)
	if err != nil {
		return nil, nil
	}

	overrides := &PylintrcOverrides{
		Command: section.Key("command").String(),
		Params:  section.Key("params").String(),
	}
	if section.HasKey("limit") {
		limit, err := section.Key("limit").Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid limit in %s [%s]: %w", path, pylintrcSection, err)
		}
		overrides.Limit = &limit
	}
	return overrides, nil
}
