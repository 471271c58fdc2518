package commands

import (
	"log"

	"github.com/spf13/cobra"

	"DayAheadArchiver/internal/archive"
)

func init() {
	rootCmd.AddCommand(historicCmd)
}

var historicCmd = &cobra.Command{
	Use:   "historic",
	Short: "Converts the historic JSON seed archives to CSV without touching the manifest.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		loc, err := cfg.Location()
		if err != nil {
			log.Fatalf("[FATAL] %v", err)
		}

		years, err := archive.NewStore(cfg.DataDir, loc).ConvertHistoric(cfg.HistoricDir)
		if err != nil {
			log.Fatalf("[FATAL] historic conversion: %v", err)
		}
		log.Printf("[INFO] converted %d historic years from %s", len(years), cfg.HistoricDir)
	},
}
