package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/config"
	"github.com/amishk599/salarynorm/internal/export"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/report"
	"github.com/amishk599/salarynorm/internal/store"
)

var reportFlags struct {
	input   string
	db      string
	summary string
	topN    int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize clean records",
	Long: "Computes sample sizes, missing rates and median monthly salaries by industry, city " +
		"and experience, writes a Markdown summary and prints the tables.",
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFlags.input, "input", "", "clean JSON file to report on (default: latest run in the database)")
	reportCmd.Flags().StringVar(&reportFlags.db, "db", "", "SQLite run database (overrides config)")
	reportCmd.Flags().StringVar(&reportFlags.summary, "summary", "", "Markdown summary output path (overrides config)")
	reportCmd.Flags().IntVar(&reportFlags.topN, "top", 0, "industries and cities to rank (overrides config)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("db") {
		cfg.Output.DB = reportFlags.db
	}
	applyReportFlags(cmd, cfg)

	src, err := openRecordSource(cfg, reportFlags.input)
	if err != nil {
		logger.Error("failed to open records", "error", err)
		os.Exit(1)
	}
	defer src.close()

	records, err := src.loader.LoadRecords(cmd.Context())
	if err != nil {
		logger.Error("failed to load records", "source", src.name, "error", err)
		os.Exit(1)
	}

	if err := writeReport(cfg.Report, records); err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}
	return nil
}

// applyReportFlags copies the report flags shared by report and all.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("summary") {
		cfg.Report.Summary = reportFlags.summary
	}
	if reportFlags.topN > 0 {
		cfg.Report.TopN = reportFlags.topN
	}
}

// writeReport summarizes records, writes the Markdown summary and prints the
// terminal tables.
func writeReport(cfg config.ReportConfig, records []model.CleanRecord) error {
	summary := report.Summarize(records, cfg.TopN)
	if cfg.Summary != "" {
		if err := report.WriteMarkdownFile(cfg.Summary, summary); err != nil {
			return err
		}
	}

	report.RenderTable(os.Stdout, summary)
	fmt.Printf("[report] rows=%d analyzed=%d\n", summary.SampleCount, summary.AnalyzedRows)
	if cfg.Summary != "" {
		fmt.Printf("[report] summary=%s\n", cfg.Summary)
	}
	return nil
}

// recordSource is where report and browse read clean records from.
type recordSource struct {
	name   string
	loader model.RecordLoader
	close  func() error
}

// openRecordSource prefers an explicit clean JSON file, then the run
// database, then the configured JSON output.
func openRecordSource(cfg *config.Config, input string) (*recordSource, error) {
	noop := func() error { return nil }
	switch {
	case input != "":
		return &recordSource{name: input, loader: export.NewJSONFile(input), close: noop}, nil
	case cfg.Output.DB != "":
		if _, err := os.Stat(cfg.Output.DB); err != nil {
			return nil, fmt.Errorf("run database %s: %w", cfg.Output.DB, err)
		}
		s, err := store.NewSQLiteStore(cfg.Output.DB)
		if err != nil {
			return nil, err
		}
		return &recordSource{name: cfg.Output.DB, loader: s, close: s.Close}, nil
	case cfg.Output.JSON != "":
		return &recordSource{name: cfg.Output.JSON, loader: export.NewJSONFile(cfg.Output.JSON), close: noop}, nil
	}
	return nil, fmt.Errorf("no record source: pass --input or configure output.db or output.json")
}
