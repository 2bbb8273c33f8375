// Command assign solves aircraft-to-route assignment problems from CSV tables
// and serves the same pipeline over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"airassign/internal/buildinfo"
	"airassign/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "assign",
		Short:         "Minimum-cost aircraft to route passenger assignment",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("ASSIGN_CONFIG"), "YAML config file")
	load := func() (config.Config, error) { return config.Load(cfgPath) }

	root.AddCommand(
		newSolveCmd(load),
		newServeCmd(load),
		newInitCmd(load),
		newImportCmd(load),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			},
		},
	)
	return root
}
