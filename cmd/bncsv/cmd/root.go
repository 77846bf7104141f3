/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bncsv/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container used by all commands
func SetContainer(c *di.Container) {
	container = c
}

func getContainer() *di.Container {
	if container == nil {
		container = di.NewContainer()
	}
	return container
}

// newRootCmd builds the base command. Running it without a subcommand
// converts the given files.
func newRootCmd() *cobra.Command {
	opts := &convertOptions{}
	rootCmd := &cobra.Command{
		Use:   "bncsv [paths...]",
		Short: "BNCSV - compact binary numeric CSV",
		Long: `bncsv converts numeric CSV files to the compact BNCSV binary format and back.

Paths may be glob patterns, including ** for recursive matches. A single
input without --output is written to stdout; several inputs are converted in
parallel and written next to their inputs or under --output.

Examples:
  bncsv -i csv data.csv > data.bncsv
  bncsv -i csv 'runs/**/*.csv' -o encoded -j 8
  bncsv -i bncsv /srv/in/*.bncsv -o decoded --abs-pathbase /srv/in
  cat data.bncsv | bncsv -i bncsv -p`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	opts.bindFlags(rootCmd)
	rootCmd.AddCommand(newConfigCmd(), newVersionCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
