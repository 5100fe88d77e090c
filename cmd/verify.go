package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgenotch/cardkeep/internal/cards"
	"github.com/edgenotch/cardkeep/internal/config"
	"github.com/edgenotch/cardkeep/internal/progress"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the card corpus for unparsable documents and missing scans",
	Long: `Walks every card in the data directory, checks that its front and back
documents parse, flags OCR error markers and missing names, and (for a
local image store) checks that the expected scan files exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		imagesDir := ""
		if cfg.ImagesProvider == config.ProviderLocal {
			imagesDir = cfg.ImagesDir
		}

		report, err := cards.Verify(cfg.DataDir, imagesDir, progress.NewReporter("Verifying cards"))
		if err != nil {
			return err
		}

		fmt.Printf("%d cards (%d fronts, %d backs)\n", report.Cards, report.Fronts, report.Backs)
		printIssue("corrupt front documents", report.CorruptFronts)
		printIssue("corrupt back documents", report.CorruptBacks)
		printIssue("OCR error markers", report.ErrorMarkers)
		printIssue("fronts without a name", report.MissingNames)
		printIssue("missing scan files", report.MissingImages)
		if report.Clean() {
			fmt.Println("corpus is clean")
		}
		return nil
	},
}

func printIssue(label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Printf("%d %s:\n", len(ids), label)
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
