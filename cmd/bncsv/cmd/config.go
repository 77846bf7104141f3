package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bncsv/pkg/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the bncsv configuration file",
	}

	var path string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with the default settings.

Example:
  bncsv config init --path ./bncsv.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			if config.ConfigExists(path) && !force {
				return fmt.Errorf("config file %s already exists (use --force to replace it)", path)
			}
			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return err
			}
			cmd.Printf("Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "Configuration file to write (default ~/.config/bncsv/config.yaml)")
	initCmd.Flags().BoolVar(&force, "force", false, "Replace an existing configuration file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
