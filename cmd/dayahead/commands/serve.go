package commands

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"DayAheadArchiver/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the archiver on the configured cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runner, closeRunner := newRunner(cfg)

		sched := scheduler.NewScheduler(cmd.Context(), runner, runner.Location)
		if err := sched.Register(cfg.Schedule.Cron); err != nil {
			closeRunner()
			log.Fatalf("[FATAL] %v", err)
		}
		sched.Start()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, executing archive task now")
			go sched.RunNow()
		}

		log.Printf("[INFO] archiver is running (%s). Press Ctrl+C to stop.", cfg.Schedule.Cron)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		// a second signal terminates the process
		signal.Stop(sigCh)

		log.Println("[INFO] shutdown signal received, stopping...")
		sched.Stop()
		closeRunner()
	},
}
