package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	for _, name := range []string{"a.mid", "b.MIDI", "c.txt", "sub/d.mid"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	paths, err := GatherAllMidiPaths(dir, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.mid"),
		filepath.Join(dir, "b.MIDI"),
		filepath.Join(dir, "sub", "d.mid"),
	}, paths)

	paths, err = GatherAllMidiPaths(dir, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = GatherAllMidiPaths(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)
}

func TestGenerics(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, GetSortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Equal(t, uint64(6), Sum([]uint8{1, 2, 3}))
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, uint32(1), Min(uint32(4), uint32(1)))
}
