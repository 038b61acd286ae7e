package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileWithLimit(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		size   int64
		tooBig bool
	}{
		{"small", 100, false},
		{"at limit", MaxFileSize, false},
		{"over limit", MaxFileSize + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, f.Truncate(tt.size))
			require.NoError(t, f.Close())

			data, err := ReadFileWithLimit(path)
			if tt.tooBig {
				assert.ErrorIs(t, err, ErrFileTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, int(tt.size))
		})
	}
}

func TestReadFileWithLimit_Missing(t *testing.T) {
	_, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "libraryfolders.vdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadOptional(t *testing.T) {
	dir := t.TempDir()

	data, ok, err := ReadOptional(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("AdditionalApps:\n"), 0o644))
	data, ok, err = ReadOptional(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AdditionalApps:\n", string(data))
}
