package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/docurgent/docurgent/pkg/export"
	"github.com/docurgent/docurgent/pkg/scenario"
)

//go:embed demo.yaml
var demoScenario []byte

var (
	demoFormat string
	demoOut    string
	demoState  bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk one document through the full custody chain",
	Long: `Creates a request from John Doe to Jane Smith, drops it at a relay point,
hands it to TRAVELER123 and completes the delivery with the recipient's code.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Parse(demoScenario)
		if err != nil {
			return err
		}
		ser, err := export.ForFormat(demoFormat)
		if err != nil {
			return err
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		res, err := scenario.Run(context.Background(), engine, sc)
		if err != nil {
			return err
		}

		data, err := ser.Serialize([]scenario.Result{res})
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := export.Write(demoOut, data, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if demoState {
			var state introspection.Introspectable = engine
			out, err := json.MarshalIndent(state.State(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "engine state: %s\n", out)
		}

		if !res.Passed {
			return errScenariosFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&demoFormat, "format", "f", "text", "Report format (text, json, yaml)")
	demoCmd.Flags().StringVarP(&demoOut, "out", "o", "", "Write the report to a file instead of stdout")
	demoCmd.Flags().BoolVar(&demoState, "state", false, "Print engine introspection state to stderr")
}
