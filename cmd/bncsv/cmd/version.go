package cmd

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../cmd.version=..."
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bncsv version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("bncsv %s\n", version)
		},
	}
}
