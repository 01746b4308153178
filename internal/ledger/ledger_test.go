package ledger

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/commitscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T, def float64) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "commitscore.score"), def)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields default", func(t *testing.T) {
		l := newLedger(t, 4.5)
		got, err := l.Load()
		require.NoError(t, err)
		assert.Equal(t, 4.5, got.Value)
	})

	t.Run("corrupt file yields default", func(t *testing.T) {
		l := newLedger(t, 0)
		require.NoError(t, os.WriteFile(l.Path(), []byte("not-a-number"), 0o644))
		got, err := l.Load()
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Value)
	})

	t.Run("non-finite value is corrupt", func(t *testing.T) {
		l := newLedger(t, 1)
		require.NoError(t, os.WriteFile(l.Path(), []byte("NaN\n"), 0o644))
		got, err := l.Load()
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.Value)
	})

	t.Run("stored value is read with surrounding whitespace", func(t *testing.T) {
		l := newLedger(t, 0)
		require.NoError(t, os.WriteFile(l.Path(), []byte("  7.25\n"), 0o644))
		got, err := l.Load()
		require.NoError(t, err)
		assert.Equal(t, 7.25, got.Value)
	})
}

func TestUpdate(t *testing.T) {
	l := newLedger(t, 5.0)
	update, err := l.Update(func(current schema.RepositoryScore) schema.LedgerUpdate {
		assert.Equal(t, 5.0, current.Value)
		next := schema.RepositoryScore{Value: 7.0}
		return schema.LedgerUpdate{Previous: current, Current: next, Impact: 2.0}
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, update.Current.Value)

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.Value)

	_, err = os.Stat(l.Path() + lockSuffix)
	assert.NoError(t, err, "sidecar lock file should exist")

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(l.Path()), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temp files should be left behind")
}

func TestUpdateRoundTripsExactBits(t *testing.T) {
	l := newLedger(t, 0)
	value := 1.0 / 3.0
	require.NoError(t, l.Reset(value))

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(value), math.Float64bits(got.Value))
}

func TestUpdateSerializesWriters(t *testing.T) {
	l := newLedger(t, 0)
	const writers = 20

	var wg sync.WaitGroup
	for range writers {
		wg.Go(func() {
			_, err := l.Update(func(current schema.RepositoryScore) schema.LedgerUpdate {
				next := schema.RepositoryScore{Value: current.Value + 1}
				return schema.LedgerUpdate{Previous: current, Current: next, Impact: 1}
			})
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, float64(writers), got.Value)
}

func TestReset(t *testing.T) {
	l := newLedger(t, 3)
	require.NoError(t, l.Reset(9.5))
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, "9.5\n", string(data))
}

func TestUpdateUnwritableDirectory(t *testing.T) {
	l := NewFile(filepath.Join(t.TempDir(), "missing", "commitscore.score"), 0)
	_, err := l.Update(func(current schema.RepositoryScore) schema.LedgerUpdate {
		return schema.LedgerUpdate{Previous: current, Current: current}
	})
	assert.Error(t, err)
}
