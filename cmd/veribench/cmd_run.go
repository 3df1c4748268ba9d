package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"veribench/internal/config"
	"veribench/internal/logging"
	"veribench/internal/run"
)

var runExecutable string

// runCmd executes the configured benchmark end to end
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the configured benchmark and classify the outcome",
	Long: `Loads the benchmark definition, builds the tool command line,
executes it under the configured limits, and prints the verdict the tool
adapter derives from the finished run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid benchmark definition: %w", err)
		}

		tool, err := lookupTool(cfg.Tool)
		if err != nil {
			return err
		}

		executable := runExecutable
		if executable == "" {
			executable, err = tool.Executable()
			if err != nil {
				return err
			}
		}

		argv, err := tool.Cmdline(executable, cfg.Options, cfg.Tasks, cfg.PropertyFile, cfg.RunLimits())
		if err != nil {
			return err
		}

		logging.Runner("starting %s with %d tasks", cfg.Tool, len(cfg.Tasks))
		logger.Info("executing benchmark",
			zap.String("tool", cfg.Tool),
			zap.Strings("argv", argv))

		res, err := run.NewExecutor().Execute(cmd.Context(), argv, cfg.RunLimits())
		if err != nil {
			logging.RunnerError("run failed: %v", err)
			return err
		}

		verdict := tool.DetermineResult(res.Run())
		logging.Runner("run %s finished: verdict=%s", res.RunID, verdict)
		logger.Info("run finished",
			zap.String("run_id", res.RunID),
			zap.Int("exit_code", res.ExitCode),
			zap.Bool("timeout", res.TimedOut),
			zap.Duration("duration", res.Duration),
			zap.String("verdict", verdict))

		fmt.Printf("%s (run %s, exit %d, %s)\n", verdict, res.RunID, res.ExitCode, res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runExecutable, "executable", "", "Launcher path (default: resolved via the adapter)")
}
