package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ch4xm/landmark-cli/internal/landmark"
)

var extractInput string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Parse the input file and list extracted landmarks",
	Long: `Dry run of the extraction stage: parses the input file and prints the
landmarks that would be geocoded, with their recorded coordinates. No
network activity.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		inputPath := cfg.InputPath
		if extractInput != "" {
			inputPath = extractInput
		}

		records, err := landmark.Extract(inputPath)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		for i, rec := range records {
			fmt.Printf("%3d  %-40s %-35s (%v, %v)\n", i+1, rec.Name, rec.Location, rec.Lat, rec.Lon)
		}
		fmt.Printf("\n%d landmarks extracted from %s\n", len(records), inputPath)

		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractInput, "input", "", "input file path (overrides config)")
	rootCmd.AddCommand(extractCmd)
}
