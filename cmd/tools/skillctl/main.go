// cmd/tools/skillctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "skillctl",
		Short:         "Inspect, document and scaffold AI gateway skills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file whose skill overrides are applied")

	root.AddCommand(
		newListCmd(&configPath),
		newExportCmd(&configPath),
		newValidateCmd(&configPath),
		newRenderCmd(&configPath),
		newScaffoldCmd(),
	)
	return root
}
