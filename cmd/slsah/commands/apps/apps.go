// Package apps provides CLI commands for the SLSsteam AdditionalApps list.
package apps

import "github.com/spf13/cobra"

// Cmd is the root apps command.
var Cmd = &cobra.Command{
	Use:   "apps",
	Short: "Manage the SLSsteam AdditionalApps list",
	Long: `Manage the AdditionalApps section of the SLSsteam config.

AdditionalApps lists the AppIDs SLSsteam unlocks. Only that section of the
file is rewritten; comments and every other section are kept as they are.
The config is backed up before each change.`,
	Example: `  # Add apps and generate their schemas
  slsah apps add 620 480 --generate

  # Pick apps to remove interactively
  slsah apps remove

  # List apps with their names
  slsah apps list --fetch

  See Also:
    slsah apps add    - Add AppIDs
    slsah apps remove - Remove AppIDs
    slsah apps list   - List AppIDs
    slsah onlinefix   - Map apps to a FakeAppId`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
