// Package schema provides CLI commands for generating and inspecting Steam
// achievement schema files.
package schema

import "github.com/spf13/cobra"

// Cmd is the root schema command.
var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate and inspect achievement schema files",
	Long: `Generate and inspect the UserGameStatsSchema_<appid>.bin files Steam reads
achievement definitions from.

Schemas are built from the Steam Web API and written into the Steam stats
directory. In update mode (the default) a new schema is merged into an
existing file, so keys Steam added locally are kept.`,
	Example: `  # Generate schemas for two apps
  slsah schema generate 620 480

  # Regenerate everything in AdditionalApps, four downloads at a time
  slsah schema generate --from-config --mode overwrite --jobs 4

  # Inspect a schema as YAML
  slsah schema show 620

  See Also:
    slsah schema generate - Build schema files from the Steam Web API
    slsah schema list     - List schema files in the stats directory
    slsah schema show     - Print a schema as YAML, TOML or JSON
    slsah schema validate - Check schema files for structural problems
    slsah schema purge    - Delete schema files`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
