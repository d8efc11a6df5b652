// Loom CLI: executes a workflow graph from a JSON file and prints the final
// per-node states.
//
// Usage:
//
//	loom run workflow.json [--trigger node-id] [--debug]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wovenflow/loom/internal/cli"
)

// version is set through ldflags at build time.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "loom",
		Short:         "Loom, a typed node-graph workflow runner",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
