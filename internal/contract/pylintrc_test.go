package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRC(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".pylintrc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPylintrcOverrides(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		overrides, err := LoadPylintrcOverrides(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Nil(t, overrides)
	})

	t.Run("no hook section", func(t *testing.T) {
		path := writeRC(t, "[MESSAGES CONTROL]\ndisable=C0111\n")
		overrides, err := LoadPylintrcOverrides(path)
		require.NoError(t, err)
		assert.Nil(t, overrides)
	})

	t.Run("all options", func(t *testing.T) {
		path := writeRC(t, `[MESSAGES CONTROL]
disable=
    C0111,
    R0903

[pre-commit-hook]
command=python3 -m pylint
params=--max-line-length=120
limit=7.5
`)
		overrides, err := LoadPylintrcOverrides(path)
		require.NoError(t, err)
		require.NotNil(t, overrides)
		assert.Equal(t, "python3 -m pylint", overrides.Command)
		assert.Equal(t, "--max-line-length=120", overrides.Params)
		require.NotNil(t, overrides.Limit)
		assert.InDelta(t, 7.5, *overrides.Limit, 1e-9)
	})

	t.Run("limit omitted", func(t *testing.T) {
		path := writeRC(t, "[pre-commit-hook]\nparams=--disable=W0511\n")
		overrides, err := LoadPylintrcOverrides(path)
		require.NoError(t, err)
		require.NotNil(t, overrides)
		assert.Nil(t, overrides.Limit)
		assert.Empty(t, overrides.Command)
	})

	t.Run("bad limit", func(t *testing.T) {
		path := writeRC(t, "[pre-commit-hook]\nlimit=high\n")
		_, err := LoadPylintrcOverrides(path)
		assert.Error(t, err)
	})
}
