package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"DayAheadArchiver/internal/archive"
	"DayAheadArchiver/internal/collector"
	"DayAheadArchiver/internal/config"
	"DayAheadArchiver/internal/notifier"
	"DayAheadArchiver/internal/pipeline"
	"DayAheadArchiver/internal/recorder"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dayahead",
	Short: "dayahead archives day-ahead auction prices into yearly JSON and CSV files.",
	Run:   runFetch,
}

func init() {
	def := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", def, "Path to the YAML config file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	return cfg
}

// newRunner wires the pipeline for the configured source. The returned
// func releases the recorder.
func newRunner(cfg *config.Config) (*pipeline.Runner, func()) {
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defaultStart, err := cfg.DefaultStart()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	var fetcher collector.Fetcher
	switch cfg.Source {
	case config.SourceEntsoe:
		fetcher = collector.NewEntsoeFetcher(cfg.Entsoe.BaseURL, cfg.Entsoe.SecurityToken, cfg.Entsoe.Domain, cfg.Proxy, loc)
	default:
		fetcher = collector.NewEpexFetcher(cfg.Epex.BaseURL, cfg.Proxy, loc)
	}
	log.Printf("[INFO] data source: %s, archive timezone: %s", fetcher.Name(), loc)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}

	var n notifier.Notifier = notifier.NoopNotifier{}
	if cfg.Telegram.BotToken != "" {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	runner := &pipeline.Runner{
		Source:       fetcher.Name(),
		Collector:    collector.NewCollector(fetcher, cfg.RequestDelay),
		Store:        archive.NewStore(cfg.DataDir, loc),
		Recorder:     rec,
		Notifier:     n,
		Location:     loc,
		DefaultStart: defaultStart,
	}
	return runner, func() {
		if err := rec.Close(); err != nil {
			log.Printf("[WARN] close recorder: %v", err)
		}
	}
}
