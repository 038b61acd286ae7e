package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		quiet     bool
		verbosity int
		env       map[string]string
		want      slog.Level
	}{
		{"default", false, 0, nil, slog.LevelWarn},
		{"-v", false, 1, nil, slog.LevelInfo},
		{"-vv", false, 2, nil, slog.LevelDebug},
		{"-vvv", false, 3, nil, logging.LevelTrace},
		{"quiet", true, 0, nil, slog.LevelError},
		{"env 1", false, 0, map[string]string{debugEnv: "1"}, slog.LevelDebug},
		{"env true", false, 0, map[string]string{debugEnv: "true"}, slog.LevelDebug},
		{"env 2", false, 0, map[string]string{debugEnv: "2"}, logging.LevelTrace},
		{"env 0", false, 0, map[string]string{debugEnv: "0"}, slog.LevelWarn},
		{"env garbage", false, 0, map[string]string{debugEnv: "foo"}, slog.LevelWarn},
		{"flag beats env", false, 1, map[string]string{debugEnv: "2"}, slog.LevelInfo},
		{"quiet beats env", true, 0, map[string]string{debugEnv: "2"}, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logLevel(tt.quiet, tt.verbosity, envMap(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevel_QuietAndVerbose(t *testing.T) {
	_, err := logLevel(true, 1, envMap(nil))
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

// withGlobals resets the persistent flag state after the test.
func withGlobals(t *testing.T) {
	t.Helper()
	saved := global
	t.Cleanup(func() {
		global = saved
		closeLogSink()
	})
}

func TestSetupLogging_InstallsDefault(t *testing.T) {
	withGlobals(t)
	global.verbosity = 2

	require.NoError(t, setupLogging(rootCmd))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
	assert.False(t, slog.Default().Enabled(t.Context(), logging.LevelTrace))
	assert.Same(t, slog.Default(), logging.FromContext(rootCmd.Context()))
}

func TestSetupLogging_LogFile(t *testing.T) {
	withGlobals(t)
	global.logFile = filepath.Join(t.TempDir(), "slsah.log")
	global.verbosity = 1

	require.NoError(t, setupLogging(rootCmd))
	slog.Default().Info("hello", "app_id", 480)
	closeLogSink()

	data, err := os.ReadFile(global.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"app_id":480`)
}

func TestSetupLogging_BadFormat(t *testing.T) {
	withGlobals(t)
	global.logFormat = "xml"

	err := setupLogging(rootCmd)
	require.ErrorIs(t, err, logging.ErrUnknownFormat)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestCheckConfig(t *testing.T) {
	t.Cleanup(func() { flags.SetConfig(nil, nil) })
	flags.SetConfig(nil, errors.New("steam_id: invalid steam id"))

	plain := &cobra.Command{Use: "generate"}
	if err := checkConfig(plain, nil); err == nil {
		t.Error("expected config error for a regular command")
	}

	optional := &cobra.Command{
		Use:         "doctor",
		Annotations: map[string]string{flags.AnnotationConfigOptional: "true"},
	}
	if err := checkConfig(optional, nil); err != nil {
		t.Errorf("optional command should run with a broken config: %v", err)
	}

	if err := checkConfig(versionCmd, nil); err != nil {
		t.Errorf("version should always run: %v", err)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runVersionWithWriter(&buf, false, false))
	for _, want := range []string{"slsah version", "commit:", "built:", "go:"} {
		assert.Contains(t, buf.String(), want)
	}

	buf.Reset()
	require.NoError(t, runVersionWithWriter(&buf, false, true))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	buf.Reset()
	require.NoError(t, runVersionWithWriter(&buf, true, false))
	var v versionOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, runtime.Version(), v.Go)
	assert.NotEmpty(t, v.Version)
}

func TestIsSilent(t *testing.T) {
	if !IsSilent(errDoctorWarnings) || !IsSilent(errDoctorErrors) {
		t.Error("doctor exit sentinels should be silent")
	}
	if IsSilent(errors.New("boom")) {
		t.Error("ordinary errors should be reported")
	}
}
