package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var flagJSON bool

var recommendCmd = &cobra.Command{
	Use:   "recommend <utterance>",
	Short: "Recommend devices for a single utterance",
	Long: `Recommend devices for a single utterance using the selected profile.
Nothing is recorded on the profile.

Examples:
  homesense recommend 好热
  homesense recommend --json 有点暗`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, logger, err := build(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		defer c.Close()

		load := c.Sessions.LoadProfile(cmd.Context(), flagProfileID)
		result, err := c.Sessions.RecommendOnce(cmd.Context(), strings.Join(args, " "), load.Profile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Fprintln(out, result)
		return nil
	},
}

func init() {
	recommendCmd.Flags().BoolVar(&flagJSON, "json", false, "print the full result as JSON")
}
