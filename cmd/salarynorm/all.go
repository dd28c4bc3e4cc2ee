package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/config"
	"github.com/amishk599/salarynorm/internal/metrics"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Clean then report",
	Long:  "Runs clean followed by report over the freshly cleaned records.",
	RunE:  runAll,
}

func init() {
	addOutputFlags(allCmd)
	allCmd.Flags().StringVar(&reportFlags.summary, "summary", "", "Markdown summary output path (overrides config)")
	allCmd.Flags().IntVar(&reportFlags.topN, "top", 0, "industries and cities to rank (overrides config)")
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyOutputFlags(cmd, cfg)
	applyReportFlags(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cleanAndReport(ctx, cfg, metrics.Nop{}, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	return nil
}

// cleanAndReport is one full cycle, shared by all and the daemon.
func cleanAndReport(ctx context.Context, cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) error {
	records, err := cleanOnce(ctx, cfg, recorder, logger)
	if err != nil {
		return err
	}
	return writeReport(cfg.Report, records)
}
