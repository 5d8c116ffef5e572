package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	rootCmd := &cobra.Command{
		Use:   "hbconsole",
		Short: "Haber-Bosch reactor scenario console",
		Long: `hbconsole serves the scenario form of a multi-bed ammonia reactor.

Edit operating conditions of a baseline and an alternative scenario, and the
console assembles the simulation request and redraws the selected plot.`,
		SilenceUsage: true,
		// bare "hbconsole" starts the server
		RunE: serve.RunE,
	}

	rootCmd.PersistentFlags().String("config", "configs", "Config directory or config.yml path")

	rootCmd.AddCommand(
		serve,
		newRangesCmd(),
		newOperatorCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hbconsole version %s\n", version)
		},
	}
}
