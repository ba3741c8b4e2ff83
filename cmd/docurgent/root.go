package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docurgent/docurgent"
	"github.com/docurgent/docurgent/pkg/core"
)

var (
	verbose bool
	cfg     config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docurgent",
	Short: "Chain-of-custody engine for documents carried by travelers",
	Long: `DocUrgent tracks a physical document from sender to relay point,
traveler and recipient, checking codes at each handoff and keeping a security log.
The CLI replays custody scenarios against an in-memory engine.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		logger, err := cfg.newLogger(os.Stderr, verbose)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// newEngine returns a fresh engine; scenarios never share state.
func newEngine() (*core.Engine, error) {
	return docurgent.New(
		docurgent.WithLogger(slog.Default()),
		docurgent.WithEventBuffer(cfg.EventBuffer),
	)
}
