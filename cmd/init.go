package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/neuromind/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize neuromind configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the model provider, quality, extraction and server settings, and writes them to .neuromind.yml (or --config).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
