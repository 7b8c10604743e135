package cli

import (
	"fmt"

	"github.com/Harshitk-cp/homesense/internal/buildconfig"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// version needs no configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		info := buildconfig.Current()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s)\n", info.Service, info.Version, info.Commit, info.GoVersion)
	},
}
