package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfluke/poseprep/config"
	"github.com/openfluke/poseprep/logger"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "poseprep",
	Short:         "Prepare multi-view pose sequences for sequence classification",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if err := logger.SetLevel(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(preprocessCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(inspectCmd)
}

// extractedDir returns the directory argument or the configured default.
func extractedDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Paths.Extracted
}
