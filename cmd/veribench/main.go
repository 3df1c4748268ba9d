// veribench drives verification tool adapters: it builds tool command
// lines, executes them, and classifies the outcomes into verdicts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"veribench/internal/logging"
	"veribench/internal/toolinfo"
	"veribench/internal/toolinfo/metaval"
	"veribench/internal/toolinfo/verifiers"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veribench",
	Short: "veribench - benchmark driver for verification tools",
	Long: `veribench drives verification tool adapters.

An adapter knows how to invoke one verifier: where its launcher lives, how
to turn a task and options into a command line, and how to read a verdict
out of the finished process. The metaval adapter wraps a second verifier
chosen per run and delegates most of this work to it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, err = os.Getwd()
			if err != nil {
				return err
			}
		}
		if err := logging.Initialize(ws); err != nil {
			logger.Warn("debug logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// lookupTool resolves a top-level tool adapter by identifier. metaval sits
// in front of the builtin verifier registry; every builtin verifier can
// also be driven directly.
func lookupTool(name string) (toolinfo.Tool, error) {
	if name == "metaval" {
		return metaval.New(verifiers.Builtin()), nil
	}
	return verifiers.Builtin().Lookup(name)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join(".veribench", "config.yaml"), "Benchmark definition file")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(cmdlineCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
