package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/steamapi"
	"github.com/thoreinstein/slsah/internal/vdf"
)

const testSteamID = "22202"

func syncEnv(t *testing.T) *cli.Env {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SteamID:        testSteamID,
		SteamDir:       filepath.Join(dir, "steam"),
		GoldbergDir:    filepath.Join(dir, "goldberg"),
		SLSsteamConfig: filepath.Join(dir, "config.yaml"),
	}
	cfg.Resolve()
	return cli.NewEnv(cfg)
}

func saveStats(t *testing.T, env *cli.Env, appID int64, names ...string) {
	t.Helper()
	root := vdf.NewMap()
	stats := root.EnsureChild(strconv.FormatInt(appID, 10)).EnsureChild("Stats")
	for i, name := range names {
		e := stats.EnsureChild(strconv.Itoa(i + 1))
		e.Set("name", vdf.String(name))
		e.Set("unlock_time", vdf.Int32(0))
	}
	require.NoError(t, env.Schemas().SaveStats(testSteamID, appID, root))
}

func unlockTime(t *testing.T, env *cli.Env, appID int64, idx string) int32 {
	t.Helper()
	tree, err := env.Schemas().LoadStats(testSteamID, appID)
	require.NoError(t, err)
	v, ok := tree.Child(strconv.FormatInt(appID, 10)).Child("Stats").Child(idx).Get("unlock_time")
	require.True(t, ok)
	n, _ := v.Int()
	return int32(n)
}

type fakePlayerAPI map[int64][]steamapi.PlayerAchievement

func (f fakePlayerAPI) GetPlayerAchievements(_ context.Context, _ uint64, appID int64) ([]steamapi.PlayerAchievement, error) {
	achs, ok := f[appID]
	if !ok {
		return nil, steamapi.ErrNotFound
	}
	return achs, nil
}

func TestSync_Goldberg(t *testing.T) {
	env := syncEnv(t)
	saveStats(t, env, 620, "ACH_WAKE", "ACH_CAKE")
	ini := filepath.Join(env.Config.GoldbergDir, "620", "achiev.ini")
	mustWrite(t, ini, "[Achievements]\nach_wake=1\nACH_CAKE=0\n", 0o644)

	ctx := logging.NewContext(context.Background(), logging.ForTest(t))
	var buf bytes.Buffer
	require.NoError(t, runSyncWithWriter(ctx, &buf, env, nil, []int64{620}))
	assert.Contains(t, buf.String(), "620: 1 unlocked, 1 updated")

	assert.NotZero(t, unlockTime(t, env, 620, "1"))
	assert.Zero(t, unlockTime(t, env, 620, "2"))
}

func TestSync_FromAPI(t *testing.T) {
	env := syncEnv(t)
	saveStats(t, env, 620, "ACH_WAKE")
	api := fakePlayerAPI{620: {{APIName: "ACH_WAKE", Achieved: 1, UnlockTime: 1700000000}}}

	var buf bytes.Buffer
	require.NoError(t, runSyncWithWriter(context.Background(), &buf, env, api, []int64{620}))
	assert.Equal(t, int32(1700000000), unlockTime(t, env, 620, "1"))
}

func TestSync_Failures(t *testing.T) {
	env := syncEnv(t)
	saveStats(t, env, 620, "ACH_WAKE")
	mustWrite(t, filepath.Join(env.Config.GoldbergDir, "620", "achiev.ini"), "[Achievements]\nACH_WAKE=1\n", 0o644)
	mustWrite(t, filepath.Join(env.Config.GoldbergDir, "730", "achiev.ini"), "[Achievements]\nX=1\n", 0o644)

	var buf bytes.Buffer
	err := runSyncWithWriter(context.Background(), &buf, env, nil, []int64{620, 440, 730})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "2 of 3 apps failed")
	assert.Contains(t, buf.String(), "620: 1 unlocked, 1 updated")
	assert.Contains(t, buf.String(), "hint:")
}

func TestSync_MissingSteamID(t *testing.T) {
	env := syncEnv(t)
	env.Config.SteamID = ""
	err := runSyncWithWriter(context.Background(), &bytes.Buffer{}, env, nil, []int64{620})
	assert.ErrorIs(t, err, errors.ErrMissingCredentials)
}
