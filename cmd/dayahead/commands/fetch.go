package commands

import (
	"log"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches every week not yet archived and rewrites the affected years.",
	Run:   runFetch,
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	runner, closeRunner := newRunner(cfg)

	res, err := runner.Run(cmd.Context())
	closeRunner()
	if err != nil {
		log.Fatalf("[FATAL] %s run: %v", runner.Source, err)
	}
	log.Printf("[INFO] done: %d weeks fetched, %d years written, %d years archived",
		res.Weeks, len(res.Years), len(res.Manifest))
}
