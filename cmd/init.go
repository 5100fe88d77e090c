package cmd

import (
	"github.com/spf13/cobra"

	"github.com/edgenotch/cardkeep/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize cardkeep configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure cardkeep and generates a cardkeep.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
