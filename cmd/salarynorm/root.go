package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/config"
	"github.com/amishk599/salarynorm/internal/export"
	"github.com/amishk599/salarynorm/internal/filter"
	"github.com/amishk599/salarynorm/internal/metrics"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/notifier"
	"github.com/amishk599/salarynorm/internal/pipeline"
	"github.com/amishk599/salarynorm/internal/retry"
	"github.com/amishk599/salarynorm/internal/source"
	"github.com/amishk599/salarynorm/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "salarynorm",
	Short: "Clean and summarize scraped job-posting salaries",
	Long: "salarynorm normalizes raw job postings (salary text, experience requirements) into " +
		"comparable monthly figures, drops duplicates, and reports median salaries.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: SALARYNORM_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > SALARYNORM_CONFIG env var > "./config.yaml" > defaults
func loadConfig(path string) (*config.Config, error) {
	return config.LoadOrDefault(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		slack := notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
		return retry.NewRetryNotifier(slack, 2, 5*time.Second, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupSinks returns one sink per configured output path.
func setupSinks(out config.OutputConfig) []model.RecordSink {
	var sinks []model.RecordSink
	if out.CSV != "" {
		sinks = append(sinks, export.NewCSVFile(out.CSV))
	}
	if out.JSON != "" {
		sinks = append(sinks, export.NewJSONFile(out.JSON))
	}
	if out.Excel != "" {
		sinks = append(sinks, export.NewExcelFile(out.Excel))
	}
	return sinks
}

// openStore opens the SQLite store, or a no-op store when no database path is
// configured. The returned close func is never nil.
func openStore(out config.OutputConfig) (model.RunStore, func() error, error) {
	if out.DB == "" {
		return store.NewNopStore(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(out.DB), 0o755); err != nil {
		return nil, nil, err
	}
	s, err := store.NewSQLiteStore(out.DB)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func setupFilter(cfg *config.Config) model.RecordFilter {
	f := cfg.Filters
	if len(f.TitleKeywords)+len(f.TitleExcludeKeywords)+len(f.Cities)+len(f.ExcludeCities) == 0 {
		return filter.AcceptAll{}
	}
	return filter.NewTitleAndCityFilter(f.TitleKeywords, f.TitleExcludeKeywords, f.Cities, f.ExcludeCities)
}

// buildCleaner wires a cleaning pipeline from cfg. Extra sinks run after the
// configured file outputs.
func buildCleaner(
	cfg *config.Config,
	runStore model.RunStore,
	n model.Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
	extra ...model.RecordSink,
) *pipeline.Cleaner {
	sinks := append(setupSinks(cfg.Output), extra...)
	return pipeline.NewCleaner(
		source.NewJSONLFile(cfg.Input),
		setupFilter(cfg),
		sinks,
		runStore,
		n,
		recorder,
		cfg.Workers,
		logger,
	)
}
