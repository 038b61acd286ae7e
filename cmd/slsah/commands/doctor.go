package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/doctor"
	"github.com/thoreinstein/slsah/internal/errors"
)

var (
	doctorJSON       bool
	doctorSilent     bool
	doctorAll        bool
	doctorCategories []string
)

func init() {
	f := doctorCmd.Flags()
	f.BoolVar(&doctorJSON, "json", false, "output the report as JSON")
	f.BoolVar(&doctorSilent, "silent", false, "print nothing, report through the exit code")
	f.BoolVarP(&doctorAll, "all", "a", false, "show passing checks and their details too")
	f.StringSliceVar(&doctorCategories, "category", nil, "only run checks in these categories: config, steam, filesystem")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "silent", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the slsah and SLSsteam setup.

Checks that the Steam stats directory is writable, the SLSsteam config
parses, the Steam library manifest is present, credentials are configured,
and the stats template is a valid stats file. Secrets are masked in the
output.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --all       Show every check with its details
  --silent    No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Run every check
  slsah doctor

  # Only the Steam checks, as JSON
  slsah doctor --category steam --json

  See Also: slsah config show`,
	Annotations: map[string]string{flags.AnnotationConfigOptional: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctorWithWriter(cmd.OutOrStdout(), flags.ConfigOrDefault(), flags.ConfigError())
	},
}

// newDoctorRunner registers every check for cfg. loadErr is the error from
// loading the slsah config, reported as its own check.
func newDoctorRunner(cfg *config.Config, loadErr error) *doctor.Runner {
	runner := doctor.NewRunner()

	configFile := flags.ConfigFile()
	if configFile == "" {
		configFile = config.DefaultConfigPath()
	}

	runner.Register(configLoadCheck{path: configFile, err: loadErr})
	runner.Register(doctor.NewConfigSyntaxCheck(configFile, cfg.SLSsteamConfig, cfg.CacheFile))
	runner.Register(doctor.NewCredentialsCheck(cfg.APIKey, cfg.SteamID))
	runner.Register(doctor.NewSLSsteamConfigCheck(cfg.SLSsteamConfig))
	runner.Register(doctor.NewLibraryManifestCheck(cfg.LibraryManifest()))
	runner.Register(doctor.NewStatsTemplateCheck(cfg.StatsTemplate))
	runner.Register(doctor.NewPathPermissionCheck(
		doctor.PathTarget{Label: "stats directory", Path: cfg.StatsDir, Dir: true, Required: true},
		doctor.PathTarget{Label: "slsah config", Path: configFile, Secret: true},
		doctor.PathTarget{Label: "SLSsteam config", Path: cfg.SLSsteamConfig},
		doctor.PathTarget{Label: "backup directory", Path: cfg.BackupDir(), Dir: true},
		doctor.PathTarget{Label: "app cache directory", Path: filepath.Dir(cfg.CacheFile), Dir: true},
	))

	if len(doctorCategories) > 0 {
		runner.Only(doctorCategories...)
	}
	return runner
}

func runDoctorWithWriter(w io.Writer, cfg *config.Config, loadErr error) error {
	report := newDoctorRunner(cfg, loadErr).Run()

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errDoctorErrors
	}
	if report.HasWarnings() {
		return errDoctorWarnings
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorSilent {
		return nil
	}

	if doctorJSON {
		return output.JSON(w, report)
	}

	return outputDoctorText(w, report)
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) error {
	showAll := doctorAll

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
		if showAll {
			for _, line := range detailLines(result.Details) {
				fmt.Fprintf(w, "  %s\n", output.Gray(line))
			}
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

// detailLines renders check details as sorted "key: value" lines.
func detailLines(details map[string]any) []string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, details[k]))
	}
	return lines
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return output.Green("✓")
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return output.Yellow("⚠")
	case doctor.SeverityError:
		return output.Red("✗")
	default:
		return "?"
	}
}

// configLoadCheck reports whether the slsah config loaded and validated.
type configLoadCheck struct {
	path string
	err  error
}

func (configLoadCheck) Name() string     { return "slsah-config" }
func (configLoadCheck) Category() string { return "config" }

func (c configLoadCheck) Run() *doctor.CheckResult {
	result := &doctor.CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}
	switch {
	case c.err != nil:
		result.Status = doctor.SeverityError
		result.Message = c.err.Error()
		result.FixHint = "Fix the value with: slsah config set <key> <value>"
	case !exists(c.path):
		result.Status = doctor.SeverityInfo
		result.Message = "no config file, using defaults and SLSAH_* environment"
	default:
		result.Status = doctor.SeverityPass
		result.Message = "config loaded"
	}
	return result
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// errDoctorWarnings carries exit code 1.
var errDoctorWarnings = errors.NewExitError(errors.New("warnings found"), errors.ExitUser)

// errDoctorErrors carries exit code 2.
var errDoctorErrors = errors.NewExitError(errors.New("errors found"), errors.ExitSystem)
