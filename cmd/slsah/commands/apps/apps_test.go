package apps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/cli/prompt"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/schema"
	"github.com/thoreinstein/slsah/internal/steamapi"
	"github.com/thoreinstein/slsah/internal/vdf"
)

const slssteamConfig = `#Example SLSsteam config
DisableFamilyShareLock: yes

AdditionalApps:
  - 480
  - 620

FakeAppIds:
  620: 480
`

func testEnv(t *testing.T) *cli.Env {
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
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.SLSsteamConfig), 0o755))
	require.NoError(t, os.WriteFile(cfg.SLSsteamConfig, []byte(slssteamConfig), 0o644))
	return cli.NewEnv(cfg)
}

func testCtx(t *testing.T) context.Context {
	return logging.NewContext(context.Background(), logging.ForTest(t))
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		addGenerate, removePurge, listJSON, listFetch = false, false, false, false
	})
}

type fakeAPI struct{}

func (fakeAPI) GetSchemaForGame(_ context.Context, appID int64, _ string) (*steamapi.GameInfo, error) {
	if appID == 999 {
		return nil, steamapi.ErrNoSchema
	}
	return &steamapi.GameInfo{
		Name:    fmt.Sprintf("Game %d", appID),
		Version: 1,
		Achievements: []schema.AchievementRecord{
			{APIName: "WIN", DisplayName: "Win", IconURL: "https://cdn/a.jpg", IconGrayURL: "https://cdn/g.jpg"},
		},
	}, nil
}

func (fakeAPI) AppDetails(_ context.Context, appID int64) (*steamapi.AppDetails, error) {
	return &steamapi.AppDetails{Name: fmt.Sprintf("Game %d", appID), Type: "game"}, nil
}

func TestAdd(t *testing.T) {
	resetFlags(t)
	env := testEnv(t)

	var buf bytes.Buffer
	require.NoError(t, runAddWithWriter(testCtx(t), &buf, env, nil, []int64{620, 730}))
	assert.Contains(t, buf.String(), "620 is already in AdditionalApps")
	assert.Contains(t, buf.String(), "Added 730")

	apps, err := env.SLSsteam().AdditionalApps()
	require.NoError(t, err)
	assert.Equal(t, []int64{480, 620, 730}, apps)

	data, err := os.ReadFile(env.Config.SLSsteamConfig)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#Example SLSsteam config\nDisableFamilyShareLock: yes\n"))

	backups, err := env.Backups().List()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestAdd_Generate(t *testing.T) {
	resetFlags(t)
	env := testEnv(t)

	var buf bytes.Buffer
	err := runAddWithWriter(testCtx(t), &buf, env, fakeAPI{}, []int64{730, 999})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, buf.String(), "schema 730 Game 730: 1 achievements (created)")

	ok, err := env.Schemas().Exists(730)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemove(t *testing.T) {
	resetFlags(t)
	env := testEnv(t)
	removePurge = true
	require.NoError(t, env.Schemas().Save(620, schemaTree(t)))

	var buf bytes.Buffer
	require.NoError(t, runRemoveWithWriter(testCtx(t), &buf, env, nil, []int64{620, 730}))
	assert.Contains(t, buf.String(), "Removed 620")
	assert.Contains(t, buf.String(), "deleted schema file")
	assert.Contains(t, buf.String(), "730 is not in AdditionalApps")

	apps, err := env.SLSsteam().AdditionalApps()
	require.NoError(t, err)
	assert.Equal(t, []int64{480}, apps)

	ok, err := env.Schemas().Exists(620)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemove_Interactive(t *testing.T) {
	resetFlags(t)
	env := testEnv(t)

	var buf bytes.Buffer
	sel := prompt.NewSelectorWithIO(strings.NewReader("2\n"), &buf)
	require.NoError(t, runRemoveWithWriter(testCtx(t), &buf, env, sel, nil))
	assert.Contains(t, buf.String(), "[2] 620")

	apps, err := env.SLSsteam().AdditionalApps()
	require.NoError(t, err)
	assert.Equal(t, []int64{480}, apps)

	// An empty answer cancels without touching the file.
	buf.Reset()
	sel = prompt.NewSelectorWithIO(strings.NewReader("\n"), &buf)
	require.NoError(t, runRemoveWithWriter(testCtx(t), &buf, env, sel, nil))
	assert.Contains(t, buf.String(), "Nothing selected.")
}

func TestList(t *testing.T) {
	resetFlags(t)
	env := testEnv(t)
	require.NoError(t, env.Schemas().Save(480, schemaTree(t)))

	listJSON = true
	var buf bytes.Buffer
	require.NoError(t, runListWithWriter(testCtx(t), &buf, env, fakeAPI{}))

	var got []appOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []appOutput{
		{AppID: 480, Name: "Game 480", Schema: true},
		{AppID: 620, Name: "Game 620", Schema: false, FakeAppID: 480},
	}, got)

	// Names were cached by the fetch above.
	listJSON = false
	buf.Reset()
	require.NoError(t, runListWithWriter(testCtx(t), &buf, env, nil))
	assert.Contains(t, buf.String(), "Game 620")
	assert.Contains(t, buf.String(), "2 app(s)")
}

func TestList_Empty(t *testing.T) {
	resetFlags(t)
	env := testEnv(t)
	require.NoError(t, os.WriteFile(env.Config.SLSsteamConfig, []byte("AdditionalApps: []\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, runListWithWriter(testCtx(t), &buf, env, nil))
	assert.Contains(t, buf.String(), "AdditionalApps is empty.")
}

func schemaTree(t *testing.T) *vdf.Map {
	t.Helper()
	g := schema.Build(480, "Spacewar", 1, []schema.AchievementRecord{
		{APIName: "WIN", DisplayName: "Win"},
	}, "english")
	return schema.Schema{"480": g}.Tree()
}
