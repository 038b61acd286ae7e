package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/errors"
)

func TestParseAppIDs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []int64
	}{
		{"none", nil, nil},
		{"plain", []string{"480", "620"}, []int64{480, 620}},
		{"comma list", []string{"480,620", " 22202 "}, []int64{480, 620, 22202}},
		{"duplicates keep first", []string{"620", "480", "620"}, []int64{620, 480}},
		{"empty fields", []string{"480,,", ""}, []int64{480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAppIDs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAppIDs_Invalid(t *testing.T) {
	for _, arg := range []string{"abc", "0", "-5", "480x"} {
		_, err := ParseAppIDs([]string{arg})
		require.Error(t, err, arg)
		assert.True(t, errors.Is(err, errors.ErrInvalidAppID), arg)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err), arg)
	}
}

func testEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SteamDir:        filepath.Join(dir, "steam"),
		SLSsteamConfig:  filepath.Join(dir, "SLSsteam", "config.yaml"),
		CacheFile:       filepath.Join(dir, "cache.json"),
		BackupRetention: 10,
		Jobs:            1,
	}
	cfg.Resolve()
	return NewEnv(cfg)
}

func TestCollect(t *testing.T) {
	env := testEnv(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(env.Config.SLSsteamConfig), 0o755))
	require.NoError(t, os.WriteFile(env.Config.SLSsteamConfig,
		[]byte("AdditionalApps:\n  - 620\n  - 730\n"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Dir(env.Config.LibraryManifest()), 0o755))
	require.NoError(t, os.WriteFile(env.Config.LibraryManifest(), []byte(`"libraryfolders"
{
	"0"
	{
		"path"	"/games"
		"apps"
		{
			"730"	"1"
			"440"	"2"
		}
	}
}
`), 0o644))

	got, err := env.Collect(Sources{Args: []string{"480"}, FromConfig: true, FromLibrary: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{480, 620, 730, 440}, got)

	got, err = env.Collect(Sources{FromConfig: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{620, 730}, got)
}

func TestCollect_MissingLibrary(t *testing.T) {
	env := testEnv(t)

	_, err := env.Collect(Sources{FromLibrary: true})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestSources_Empty(t *testing.T) {
	assert.True(t, Sources{}.Empty())
	assert.False(t, Sources{FromConfig: true}.Empty())
	assert.False(t, Sources{Args: []string{"1"}}.Empty())
}
