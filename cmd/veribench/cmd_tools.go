package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"veribench/internal/toolinfo/metaval"
	"veribench/internal/toolinfo/verifiers"
)

// toolsCmd lists the available tool adapters
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tool adapters",
	Long: `Lists every verifier identifier metaval can wrap, and the tool
directories that must exist in the working directory before a run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := verifiers.Builtin()

		fmt.Println("Wrapped verifiers:")
		for _, name := range reg.Names() {
			tool, err := reg.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %-20s %s\n", name, tool.Name())
		}

		fmt.Println("\nRequired paths for metaval:")
		for _, path := range metaval.New(reg).RequiredPaths() {
			fmt.Printf("  %s\n", path)
		}
		return nil
	},
}
