package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cardkeep",
	Short: "Browse, search, and edit a scanned card archive",
	Long: `Cardkeep serves a card archive: OCR'd front/back JSON documents plus
the scanned images they came from. It indexes the documents in memory
for search and filtering, and crops name regions out of the scans on
demand.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "cardkeep.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
