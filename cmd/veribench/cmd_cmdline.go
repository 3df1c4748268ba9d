package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"veribench/internal/config"
)

var cmdlineExecutable string

// cmdlineCmd builds and prints the command line for the configured tool
var cmdlineCmd = &cobra.Command{
	Use:   "cmdline",
	Short: "Build the command line for the configured benchmark",
	Long: `Loads the benchmark definition, asks the configured tool adapter to
build the argument vector for its tasks, and prints it without executing
anything. Useful for inspecting what a run would do.`,
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

		executable := cmdlineExecutable
		if executable == "" {
			executable, err = tool.Executable()
			if err != nil {
				return err
			}
		}

		logger.Debug("building command line",
			zap.String("tool", cfg.Tool),
			zap.String("executable", executable),
			zap.Int("tasks", len(cfg.Tasks)))

		argv, err := tool.Cmdline(executable, cfg.Options, cfg.Tasks, cfg.PropertyFile, cfg.RunLimits())
		if err != nil {
			return err
		}

		fmt.Println(strings.Join(argv, " "))
		return nil
	},
}

func init() {
	cmdlineCmd.Flags().StringVar(&cmdlineExecutable, "executable", "", "Launcher path (default: resolved via the adapter)")
}
