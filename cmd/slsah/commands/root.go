// Package commands implements the CLI commands for slsah.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
)

// debugEnv raises the log level when no -v flag is given: 1 or true means
// debug, 2 means trace.
const debugEnv = "SLSAH_DEBUG"

// global holds the persistent flags shared by every command.
var global struct {
	verbosity int
	quiet     bool
	logFormat string
	logFile   string
}

// logSink is the open --log-file, closed when Execute returns.
var logSink io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(flags.ConfigFileVar(), "config", "c", "", "config file (default: $XDG_CONFIG_HOME/slsah/config.yaml)")
	pf.CountVarP(&global.verbosity, "verbose", "v", "more log output (-v info, -vv debug, -vvv trace)")
	pf.BoolVarP(&global.quiet, "quiet", "q", false, "log errors only")
	pf.StringVar(&global.logFormat, "log-format", "text", "console log format: text or json")
	pf.StringVar(&global.logFile, "log-file", "", "also append JSON logs to this file")

	rootCmd.Version, _, _ = cmd.BuildInfo()
	rootCmd.SetVersionTemplate("slsah version {{.Version}}\n")

	// main prints errors with their suggestion.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Load errors are reported by checkConfig, after logging is up.
	flags.SetConfig(config.Load(flags.ConfigFile()))
}

var rootCmd = &cobra.Command{
	Use:   "slsah",
	Short: "Achievement helper for SLSsteam",
	Long: `slsah generates Steam achievement schema files for games unlocked
through SLSsteam, so the Steam client shows and tracks their achievements.

It fetches achievement definitions from the Steam Web API, writes
UserGameStatsSchema_<appid>.bin files into Steam's stats directory, and
manages the AdditionalApps and FakeAppIds sections of the SLSsteam config.
Every change to the SLSsteam config is backed up first.`,
	Example: `  # Store your Web API key and Steam ID
  slsah config set api_key <key>
  slsah config set steam_id "[U:1:22202]"

  # Generate schemas for every app in AdditionalApps
  slsah schema generate --from-config

  # Add an app and generate its schema
  slsah apps add 620 --generate

  # Check the environment
  slsah doctor

  See Also: slsah config, slsah doctor, slsah schema`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// logLevel resolves the console level from -q, -v and SLSAH_DEBUG. Flags
// win over the environment.
func logLevel(quiet bool, verbosity int, lookup func(string) (string, bool)) (slog.Level, error) {
	if quiet && verbosity > 0 {
		return 0, errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"Use only one of -q or -v")
	}
	if quiet {
		return slog.LevelError, nil
	}
	if verbosity == 0 {
		switch v, _ := lookup(debugEnv); v {
		case "1", "true":
			verbosity = 2
		case "2":
			verbosity = 3
		}
	}
	return logging.LevelFromVerbosity(verbosity), nil
}

// setupLogging installs the logger for this run as slog's default and on
// the command context.
func setupLogging(cmd *cobra.Command) error {
	level, err := logLevel(global.quiet, global.verbosity, os.LookupEnv)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(global.logFormat)
	if err != nil {
		return errors.NewUserError(err, "Use --log-format text or --log-format json")
	}

	opts := logging.Options{Level: level, Format: format, Console: cmd.ErrOrStderr()}
	if global.logFile != "" {
		f, err := os.OpenFile(global.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "Check the --log-file path")
		}
		closeLogSink()
		logSink, opts.File = f, f
	}

	logger := logging.New(opts)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

func closeLogSink() {
	if logSink != nil {
		_ = logSink.Close()
		logSink = nil
	}
}

// checkConfig fails early when the configuration did not load, except for
// commands that exist to inspect or repair it.
func checkConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if err := flags.ConfigError(); err != nil && !flags.ConfigOptional(cmd) {
		return errors.NewConfigError(err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signalContext()
	defer stop()
	defer closeLogSink()
	return rootCmd.ExecuteContext(ctx)
}
