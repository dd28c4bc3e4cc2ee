package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/metrics"
	"github.com/amishk599/salarynorm/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduling daemon",
	Long: "Runs clean and report on the configured cron schedule and serves Prometheus " +
		"metrics; blocks until SIGINT/SIGTERM.",
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"input", cfg.Input,
		"cron", cfg.Schedule.Cron,
		"workers", cfg.Workers,
		"title_keywords", len(cfg.Filters.TitleKeywords),
		"cities", len(cfg.Filters.Cities),
		"notification", cfg.Notification.Type,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewPrometheus()
	if cfg.Schedule.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.Schedule.MetricsAddr,
			Handler:           metricsMux(recorder),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics", "addr", cfg.Schedule.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	job := func(ctx context.Context) error {
		runCtx, cancel := context.WithTimeout(ctx, cfg.Schedule.Timeout)
		defer cancel()
		return cleanAndReport(runCtx, cfg, recorder, logger)
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule.Cron, job, cfg.Schedule.RunOnStart, logger)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

func metricsMux(p *metrics.Prometheus) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
