package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"veribench/internal/toolinfo/verifiers"
)

// versionCmd queries tool versions
var versionCmd = &cobra.Command{
	Use:   "version [tool...]",
	Short: "Query the versions of installed tools",
	Long: `Queries each named tool for its version by invoking its launcher
with the appropriate version flag. Without arguments, all registered
verifiers are queried. Tools whose launcher cannot be found are reported
as unavailable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := verifiers.Builtin()

		names := args
		if len(names) == 0 {
			names = reg.Names()
		}

		var mu sync.Mutex
		versions := make(map[string]string, len(names))

		var g errgroup.Group
		for _, name := range names {
			name := name
			g.Go(func() error {
				tool, err := reg.Lookup(name)
				if err != nil {
					return err
				}

				report := func(v string) {
					mu.Lock()
					defer mu.Unlock()
					versions[name] = v
				}

				executable, err := tool.Executable()
				if err != nil {
					report("unavailable")
					return nil
				}
				version, err := tool.Version(executable)
				if err != nil {
					report(fmt.Sprintf("unavailable (%v)", err))
					return nil
				}
				report(version)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, name := range names {
			fmt.Printf("%-20s %s\n", name, versions[name])
		}
		return nil
	},
}
