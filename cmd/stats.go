package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Another0Noob/mangadex-mal-import/internal/importer"
	"github.com/Another0Noob/mangadex-mal-import/internal/malparser"
	"github.com/Another0Noob/mangadex-mal-import/internal/report"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many titles of an export fall in each reading status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		batches, err := readExport(inputFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, report.Statistics(batches))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addInputFlag(statsCmd)
}

func readExport(path string) ([]importer.Batch, error) {
	list, err := malparser.ParseMALFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse MAL file: %w", err)
	}
	return importer.Categorize(list), nil
}
