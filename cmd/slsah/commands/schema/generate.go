package schema

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/generate"
)

var (
	generateMode        string
	generateJobs        int
	generateLanguage    string
	generateFromConfig  bool
	generateFromLibrary bool
	generateJSON        bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateMode, "mode", "m", string(generate.ModeUpdate),
		"what to do with existing files: overwrite, update, skip")
	generateCmd.Flags().IntVarP(&generateJobs, "jobs", "j", 0,
		"apps processed in parallel (default: jobs from config)")
	generateCmd.Flags().StringVarP(&generateLanguage, "language", "l", "",
		"schema language (default: language from config)")
	generateCmd.Flags().BoolVar(&generateFromConfig, "from-config", false,
		"include every app in the SLSsteam AdditionalApps list")
	generateCmd.Flags().BoolVar(&generateFromLibrary, "from-library", false,
		"include every app in the Steam library manifest")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Output the summary in JSON format")
	Cmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [appid...]",
	Short: "Build schema files from the Steam Web API",
	Long: `Fetch achievement definitions from the Steam Web API and write
UserGameStatsSchema_<appid>.bin files into the stats directory.

Modes:
  update     merge into an existing file, keeping keys only it has (default)
  overwrite  replace an existing file
  skip       leave existing files alone without contacting the API

When stats_template is configured and a user stats file for the app is
missing, the template is copied into place. Requires api_key; steam_id is
needed for the stats file.`,
	Example: `  # One app
  slsah schema generate 620

  # Every app SLSsteam unlocks, skipping ones already generated
  slsah schema generate --from-config --mode skip

  # Everything installed, in German
  slsah schema generate --from-library --language german

  See Also:
    slsah schema show  - Inspect the result
    slsah apps add     - Add apps to AdditionalApps`,
	RunE: runGenerate,
}

// summaryOutput is the JSON form of a generation summary.
type summaryOutput struct {
	Total       int            `json:"total"`
	Created     int            `json:"created"`
	Overwritten int            `json:"overwritten"`
	Updated     int            `json:"updated"`
	Skipped     int            `json:"skipped"`
	Errors      int            `json:"errors"`
	Results     []resultOutput `json:"results"`
}

type resultOutput struct {
	AppID        int64  `json:"app_id"`
	Name         string `json:"name,omitempty"`
	Outcome      string `json:"outcome"`
	Achievements int    `json:"achievements"`
	StatsCreated bool   `json:"stats_created,omitempty"`
	Warning      string `json:"warning,omitempty"`
	Error        string `json:"error,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	env, err := flags.Env()
	if err != nil {
		return err
	}

	src := cli.Sources{Args: args, FromConfig: generateFromConfig, FromLibrary: generateFromLibrary}
	if src.Empty() {
		return errors.NewUserError(errors.New("no apps given"),
			"Pass AppIDs, --from-config or --from-library")
	}
	ids, err := env.Collect(src)
	if err != nil {
		return err
	}

	api, err := env.SteamAPI()
	if err != nil {
		return err
	}
	return runGenerateWithWriter(cmd.Context(), cmd.OutOrStdout(), env, api, ids)
}

func runGenerateWithWriter(ctx context.Context, w io.Writer, env *cli.Env, api generate.SchemaFetcher, ids []int64) error {
	mode, err := generate.ParseMode(generateMode)
	if err != nil {
		return errors.NewUserError(err, "Use --mode overwrite, update or skip")
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No apps to process.")
		return nil
	}

	cfg := env.Config
	opts := generate.Options{
		Mode:          mode,
		Language:      cfg.Language,
		SteamID:       cfg.SteamID,
		StatsTemplate: cfg.StatsTemplate,
		Jobs:          cfg.Jobs,
	}
	if generateLanguage != "" {
		opts.Language = generateLanguage
	}
	if generateJobs > 0 {
		opts.Jobs = generateJobs
	}

	summary, err := generate.New(env.Schemas(), api, opts).Run(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "generation interrupted")
	}

	if generateJSON {
		if err := output.JSON(w, toSummaryOutput(summary)); err != nil {
			return err
		}
	} else {
		printSummary(w, summary)
	}

	if summary.Errors > 0 {
		return errors.NewExitError(
			errors.Newf("%d of %d apps failed", summary.Errors, summary.Total), errors.ExitUser)
	}
	return nil
}

func printSummary(w io.Writer, s *generate.Summary) {
	for _, r := range s.Results {
		label := fmt.Sprintf("%d", r.AppID)
		if r.Name != "" {
			label += " " + r.Name
		}

		switch r.Outcome {
		case generate.OutcomeFailed:
			fmt.Fprintf(w, "%s %s: %v\n", output.Red("✗"), label, r.Err)
		case generate.OutcomeSkipped:
			fmt.Fprintf(w, "%s %s: %s\n", output.Gray("-"), label, output.Gray("skipped, schema exists"))
		default:
			line := fmt.Sprintf("%s %s: %d achievements (%s)", output.Green("✓"), label, r.Achievements, r.Outcome)
			if r.StatsCreated {
				line += ", stats file created"
			}
			fmt.Fprintln(w, line)
		}
		if r.Warning != "" {
			fmt.Fprintf(w, "  %s %s\n", output.Yellow("warning:"), r.Warning)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d, created: %d, overwritten: %d, updated: %d, skipped: %d, errors: %d\n",
		s.Total, s.Created, s.Overwritten, s.Updated, s.Skipped, s.Errors)
}

func toSummaryOutput(s *generate.Summary) summaryOutput {
	out := summaryOutput{
		Total:       s.Total,
		Created:     s.Created,
		Overwritten: s.Overwritten,
		Updated:     s.Updated,
		Skipped:     s.Skipped,
		Errors:      s.Errors,
		Results:     make([]resultOutput, 0, len(s.Results)),
	}
	for _, r := range s.Results {
		ro := resultOutput{
			AppID:        r.AppID,
			Name:         r.Name,
			Outcome:      string(r.Outcome),
			Achievements: r.Achievements,
			StatsCreated: r.StatsCreated,
			Warning:      r.Warning,
		}
		if r.Err != nil {
			ro.Error = r.Err.Error()
		}
		out.Results = append(out.Results, ro)
	}
	return out
}
