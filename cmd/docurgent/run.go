package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/docurgent/docurgent/pkg/export"
	"github.com/docurgent/docurgent/pkg/scenario"
)

var errScenariosFailed = errors.New("one or more scenarios failed")

// followDrain bounds how long a finished scenario waits for its audit printer.
const followDrain = time.Second

var (
	runFormat string
	runOut    string
	runFollow bool
	runWatch  bool
	runJobs   int
)

var runCmd = &cobra.Command{
	Use:   "run <pattern>...",
	Short: "Run custody scenario scripts",
	Long: `Runs every YAML scenario matching the given patterns, each on a fresh engine.
Patterns support ** (e.g. "scenarios/**/*.yaml").`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		files, err := scenario.Discover(args...)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no scenario matched %v", args)
		}

		ser, err := export.ForFormat(runFormat)
		if err != nil {
			return err
		}

		passed, err := runFiles(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), ser, files)
		if err != nil {
			return err
		}

		if runWatch {
			return watchScenarios(ctx, files, func(path string) {
				if _, err := runFiles(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), ser, []string{path}); err != nil {
					slog.Error("scenario re-run failed", "path", path, "error", err)
				}
			})
		}

		if !passed {
			return errScenariosFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "Report format (text, json, yaml)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Write the report to a file instead of stdout")
	runCmd.Flags().BoolVar(&runFollow, "follow", false, "Stream security log entries to stderr as they happen")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run a scenario whenever its file changes")
	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", 4, "Number of scenarios run concurrently")
}

// runFiles executes each file on its own engine, up to runJobs at a time,
// and writes one combined report in file order.
func runFiles(ctx context.Context, stdout, stderr io.Writer, ser export.Serializer, files []string) (bool, error) {
	scenarios := make([]scenario.Scenario, len(files))
	for i, path := range files {
		sc, err := scenario.Load(path)
		if err != nil {
			return false, err
		}
		scenarios[i] = sc
	}

	results := make([]scenario.Result, len(scenarios))
	stderr = &lockedWriter{w: stderr}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runJobs, 1))
	for i, sc := range scenarios {
		g.Go(func() error {
			res, err := runOne(gctx, stderr, sc)
			if err != nil {
				return err
			}
			slog.Debug("scenario finished", "name", sc.Name, "passed", res.Passed)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	passed := true
	for _, res := range results {
		if !res.Passed {
			passed = false
		}
	}

	data, err := ser.Serialize(results)
	if err != nil {
		return false, fmt.Errorf("failed to render report: %w", err)
	}
	if err := export.Write(runOut, data, stdout); err != nil {
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	return passed, nil
}

func runOne(ctx context.Context, stderr io.Writer, sc scenario.Scenario) (scenario.Result, error) {
	engine, err := newEngine()
	if err != nil {
		return scenario.Result{}, err
	}

	if !runFollow {
		return scenario.Run(ctx, engine, sc)
	}

	followCtx, cancel := context.WithCancel(ctx)
	done, err := follow(followCtx, engine, stderr)
	if err != nil {
		cancel()
		return scenario.Result{}, err
	}
	res, runErr := scenario.Run(ctx, engine, sc)
	cancel()
	select {
	case <-done:
	case <-time.After(followDrain):
		slog.Warn("audit printer did not stop in time")
	}
	return res, runErr
}
