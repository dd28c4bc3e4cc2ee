package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/config"
	"github.com/amishk599/salarynorm/internal/metrics"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/store"
)

var cleanFlags struct {
	input  string
	csv    string
	json   string
	excel  string
	db     string
	dryRun bool
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean a raw JSONL dataset",
	Long: "Reads raw postings, normalizes salary and experience fields, drops duplicates, " +
		"and writes the clean CSV/JSON/Excel outputs and the run database.",
	RunE: runClean,
}

func init() {
	addOutputFlags(cleanCmd)
	rootCmd.AddCommand(cleanCmd)
}

// addOutputFlags registers the flags shared by clean and all.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cleanFlags.input, "input", "", "raw JSONL input path (overrides config)")
	cmd.Flags().StringVar(&cleanFlags.csv, "csv", "", "clean CSV output path, empty to disable (overrides config)")
	cmd.Flags().StringVar(&cleanFlags.json, "json", "", "clean JSON output path, empty to disable (overrides config)")
	cmd.Flags().StringVar(&cleanFlags.excel, "excel", "", "clean Excel output path (overrides config)")
	cmd.Flags().StringVar(&cleanFlags.db, "db", "", "SQLite run database, empty to disable (overrides config)")
	cmd.Flags().BoolVar(&cleanFlags.dryRun, "dry-run", false, "clean and print stats without writing any output")
}

// applyOutputFlags copies explicitly set flags over the config values.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("input") {
		cfg.Input = cleanFlags.input
	}
	if cmd.Flags().Changed("csv") {
		cfg.Output.CSV = cleanFlags.csv
	}
	if cmd.Flags().Changed("json") {
		cfg.Output.JSON = cleanFlags.json
	}
	if cmd.Flags().Changed("excel") {
		cfg.Output.Excel = cleanFlags.excel
	}
	if cmd.Flags().Changed("db") {
		cfg.Output.DB = cleanFlags.db
	}
	if cleanFlags.dryRun {
		cfg.Output = config.OutputConfig{}
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyOutputFlags(cmd, cfg)

	if cleanFlags.dryRun {
		logger.Info("dry-run mode: no outputs will be written")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := cleanOnce(ctx, cfg, metrics.Nop{}, logger); err != nil {
		logger.Error("clean failed", "error", err)
		os.Exit(1)
	}
	return nil
}

// cleanOnce runs one cleaning pass with the outputs in cfg and returns the
// clean records it produced.
func cleanOnce(ctx context.Context, cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) ([]model.CleanRecord, error) {
	runStore, closeStore, err := openStore(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer closeStore()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)

	collector := &recordCollector{}
	cleaner := buildCleaner(cfg, runStore, n, recorder, logger, collector)

	stats, err := cleaner.Run(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Printf("[clean] raw_rows=%d clean_rows=%d dropped=%d filtered=%d malformed=%d\n",
		stats.RawRows, stats.CleanRows, stats.DroppedDuplicates, stats.Filtered, stats.Malformed)
	for _, path := range []string{cfg.Output.CSV, cfg.Output.JSON, cfg.Output.Excel, cfg.Output.DB} {
		if path != "" {
			fmt.Printf("[clean] wrote %s\n", path)
		}
	}

	if sqlStore, ok := runStore.(*store.SQLiteStore); ok && cfg.Output.Retention > 0 {
		if err := sqlStore.Cleanup(ctx, cfg.Output.Retention); err != nil {
			logger.Warn("pruning old runs failed", "error", err)
		}
	}

	return collector.records, nil
}

// recordCollector keeps the clean records of a run in memory so that a report
// can follow without reading the outputs back.
type recordCollector struct {
	records []model.CleanRecord
}

func (c *recordCollector) Name() string { return "memory" }

func (c *recordCollector) WriteRecords(_ context.Context, records []model.CleanRecord) error {
	c.records = records
	return nil
}
