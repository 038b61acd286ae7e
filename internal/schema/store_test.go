package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/vdf"
)

func TestStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "appcache", "stats")
	store := NewStore(dir)

	got, err := store.Load(480)
	require.NoError(t, err)
	assert.Nil(t, got, "missing file should load as nil")

	ok, err := store.Exists(480)
	require.NoError(t, err)
	assert.False(t, ok)

	tree := Schema{"480": Build(480, "Spacewar", 1, records(3), "english")}.Tree()
	require.NoError(t, store.Save(480, tree))

	assert.FileExists(t, filepath.Join(dir, "UserGameStatsSchema_480.bin"))
	got, err = store.Load(480)
	require.NoError(t, err)
	assert.True(t, tree.Equal(got))

	info, err := os.Stat(store.SchemaPath(480))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerm), info.Mode().Perm())
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(store.SchemaPath(480), []byte{0x00, 'a', 0x00, 0x01, 'b'}, 0o644))

	_, err := store.Load(480)
	require.Error(t, err)
	assert.ErrorIs(t, err, vdf.ErrMalformedBinary)
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	for _, name := range []string{
		"UserGameStatsSchema_730.bin",
		"UserGameStatsSchema_480.bin",
		"UserGameStatsSchema_abc.bin",
		"UserGameStats_76561198000000000_480.bin",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	ids, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []int64{480, 730}, ids)

	ids, err = NewStore(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_EnsureStatsFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	template := filepath.Join(dir, "UserGameStats_steamid_appid.bin")
	payload := []byte{0x00, 'c', 'a', 'c', 'h', 'e', 0x00, 0x08, 0x08}
	require.NoError(t, os.WriteFile(template, payload, 0o644))

	created, err := store.EnsureStatsFile("76561198000000000", 480, template)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(store.StatsPath("76561198000000000", 480))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	created, err = store.EnsureStatsFile("76561198000000000", 480, template)
	require.NoError(t, err)
	assert.False(t, created, "existing stats file must not be overwritten")

	_, err = store.EnsureStatsFile("76561198000000000", 730, filepath.Join(dir, "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(store.SchemaPath(480), nil, 0o644))
	require.NoError(t, os.WriteFile(store.StatsPath("1", 480), nil, 0o644))

	n, err := store.Remove(480, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, store.StatsPath("1", 480))

	n, err = store.Remove(480, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, store.StatsPath("1", 480))
}

func TestStore_StatsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	got, err := store.LoadStats("1", 480)
	require.NoError(t, err)
	assert.Nil(t, got)

	tree := vdf.NewMap()
	tree.EnsureChild("cache").Set("crc", vdf.Int32(5))
	require.NoError(t, store.SaveStats("1", 480, tree))

	got, err = store.LoadStats("1", 480)
	require.NoError(t, err)
	assert.True(t, tree.Equal(got))
}
