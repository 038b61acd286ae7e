package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/doctor"
	"github.com/thoreinstein/slsah/internal/editor"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/slsconfig"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

var (
	configShowJSON bool
	configReveal   bool
	configSLSsteam bool
)

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Output in JSON format")
	configGetCmd.Flags().BoolVar(&configReveal, "reveal", false, "print api_key unmasked")
	configEditCmd.Flags().BoolVar(&configSLSsteam, "slssteam", false,
		"edit the SLSsteam config instead (validated and backed up before saving)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage slsah configuration",
	Long: `Manage slsah configuration stored in $XDG_CONFIG_HOME/slsah/config.yaml.

Every key can also be set through the environment, e.g. SLSAH_API_KEY.
Without a subcommand, shows the effective configuration.

Keys:
  api_key           Steam Web API key
  steam_id          Steam ID ([U:1:n], STEAM_0:y:z, SteamID64 or account number)
  language          schema language (default english)
  steam_dir         Steam installation directory
  stats_dir         Steam stats directory (default <steam_dir>/appcache/stats)
  slssteam_config   SLSsteam config.yaml
  cache_file        app info cache
  goldberg_dir      Goldberg saves directory
  stats_template    user stats file copied for new schemas
  backup_retention  SLSsteam config backups to keep (default 10)
  jobs              parallel schema downloads (default 1)`,
	Example: `  # Show the effective configuration
  slsah config

  # Set your Steam ID
  slsah config set steam_id "[U:1:22202]"

See Also: slsah doctor`,
	Annotations: map[string]string{flags.AnnotationConfigOptional: "true"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the effective configuration in YAML format, with the API key masked.`,
	Example: `  # Show configuration
  slsah config show

  # As JSON
  slsah config show --json

See Also: slsah config get, slsah config set`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single effective configuration value by key.`,
	Example: `  # Where schemas are written
  slsah config get stats_dir

See Also: slsah config set, slsah config show`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.Config()
		if err != nil {
			return err
		}
		return runConfigGetWithWriter(cmd.OutOrStdout(), cfg, args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

The value is validated before the file is written. Steam IDs are stored
as account numbers. The file is written with mode 0600 since it holds
the API key.`,
	Example: `  # Set the API key
  slsah config set api_key 0123456789ABCDEF0123456789ABCDEF

  # Download four schemas at a time
  slsah config set jobs 4

See Also: slsah config get, slsah config show`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSetWithWriter(cmd.OutOrStdout(), configPath(), args[0], args[1])
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the slsah configuration file in your default editor.

With --slssteam, a copy of the SLSsteam config is edited instead. The
copy is checked for readable AdditionalApps and FakeAppIds sections, the
current file is backed up, and only then is the edit saved.

Uses $EDITOR or $VISUAL, falling back to nano or vi.`,
	Example: `  # Edit slsah settings
  slsah config edit

  # Edit the SLSsteam config safely
  slsah config edit --slssteam

See Also: slsah backup list, slsah config show`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configSLSsteam {
			env, err := flags.Env()
			if err != nil {
				return err
			}
			return runConfigEditSLSsteam(cmd.OutOrStdout(), env, editor.New())
		}
		path := configPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return errors.NewUserError(errors.Newf("config file not found at %s", path),
				"Create it with: slsah config set <key> <value>")
		}
		return editor.New().Open(path)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
	},
}

func configPath() string {
	if p := flags.ConfigFile(); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := flags.Config()
	if err != nil {
		return err
	}
	return runConfigShowWithWriter(cmd.OutOrStdout(), cfg)
}

func runConfigShowWithWriter(w io.Writer, cfg *config.Config) error {
	shown := *cfg
	if shown.APIKey != "" {
		shown.APIKey = doctor.MaskValue(shown.APIKey)
	}

	if configShowJSON {
		values := make(map[string]string, len(config.Keys))
		for _, key := range config.Keys {
			values[key] = configValue(&shown, key)
		}
		return output.JSON(w, values)
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(w, string(data))
	return nil
}

func runConfigGetWithWriter(w io.Writer, cfg *config.Config, key string) error {
	value, ok := lookupConfigValue(cfg, key)
	if !ok {
		return errors.NewUserError(errors.Wrapf(config.ErrUnknownKey, "%q", key),
			"Run 'slsah config --help' to list keys")
	}
	if key == config.KeyAPIKey && value != "" && !configReveal {
		value = doctor.MaskValue(value)
	}
	if value == "" {
		fmt.Fprintln(w, "not set")
		return nil
	}
	fmt.Fprintln(w, value)
	return nil
}

func runConfigSetWithWriter(w io.Writer, path, key, value string) error {
	if err := config.Set(path, key, value); err != nil {
		return errors.NewUserError(errors.Wrapf(err, "setting %s", key),
			"Run 'slsah config --help' for valid keys and values")
	}
	if key == config.KeyAPIKey {
		value = doctor.MaskValue(value)
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func runConfigEditSLSsteam(w io.Writer, env *cli.Env, ed *editor.Editor) error {
	path := env.Config.SLSsteamConfig
	data, changed, err := ed.EditCopy(path)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	text := string(data)
	if _, err := slsconfig.ReadAppIDs(text, slsconfig.KeyAdditionalApps); err != nil {
		return errors.NewUserError(err, "Your edit was discarded; "+path+" is unchanged")
	}
	if _, err := slsconfig.ReadAppIDMap(text, slsconfig.KeyFakeAppIDs); err != nil {
		return errors.NewUserError(err, "Your edit was discarded; "+path+" is unchanged")
	}

	b, err := env.Backups().Create(path)
	if err != nil {
		return errors.Wrap(err, "backing up config before write")
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.AtomicWriteFile(path, data, perm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	if b != nil {
		fmt.Fprintf(w, "Backed up to %s\n", b.Name)
	}
	fmt.Fprintf(w, "%s Saved %s\n", output.Green("✓"), path)
	return nil
}

// lookupConfigValue returns key's effective value as text.
func lookupConfigValue(cfg *config.Config, key string) (string, bool) {
	for _, k := range config.Keys {
		if k == key {
			return configValue(cfg, key), true
		}
	}
	return "", false
}

func configValue(cfg *config.Config, key string) string {
	switch key {
	case config.KeyAPIKey:
		return cfg.APIKey
	case config.KeySteamID:
		return cfg.SteamID
	case config.KeyLanguage:
		return cfg.Language
	case config.KeySteamDir:
		return cfg.SteamDir
	case config.KeyStatsDir:
		return cfg.StatsDir
	case config.KeySLSsteamConfig:
		return cfg.SLSsteamConfig
	case config.KeyCacheFile:
		return cfg.CacheFile
	case config.KeyGoldbergDir:
		return cfg.GoldbergDir
	case config.KeyStatsTemplate:
		return cfg.StatsTemplate
	case config.KeyBackupRetention:
		return strconv.Itoa(cfg.BackupRetention)
	case config.KeyJobs:
		return strconv.Itoa(cfg.Jobs)
	}
	return ""
}
