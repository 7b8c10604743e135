// Package cli implements the homesense command line: an interactive chat
// loop, one-shot recommendations and profile maintenance.
package cli

import (
	"github.com/Harshitk-cp/homesense/internal/app"
	"github.com/Harshitk-cp/homesense/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagLogLevel  string
	flagProfileID string
)

var rootCmd = &cobra.Command{
	Use:   "homesense",
	Short: "context-aware smart home device recommendations",
	Long: `homesense - recommends household devices for what you say
  - keyword rules ranked by your profile, season and time of day
  - scenes such as 睡觉 or 出门 narrow the next few answers
  - anything unmatched is answered by the configured LLM`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Load()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagProfileID, "profile", "p", "default", "profile id")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(versionCmd)
}

// build wires the engine for a command. The caller must Close the result.
func build(cmd *cobra.Command) (*app.Components, *zap.Logger, error) {
	logger, err := config.NewLoggerAt(flagLogLevel)
	if err != nil {
		return nil, nil, err
	}
	c, err := app.Build(cmd.Context(), logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return c, logger, nil
}
