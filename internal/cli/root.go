package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quicklist/quicklist/internal/config"
	"github.com/quicklist/quicklist/internal/logger"
)

var (
	logLevel   string
	logConsole bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quicklist",
	Short: "QuickList - offline-first todo lists and sticky notes with sync",
	Long: `QuickList keeps todo lists and a sticky-note board on your device and
syncs them to a server when you are online. Work offline freely; queued
changes replay in order on reconnect.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("QuickList started", logger.F("command", cmd.Name()))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLists(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Mirror logs to stderr")

	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(languageCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
