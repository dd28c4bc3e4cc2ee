package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent cleaning runs",
	Long:  "Reads the run database and prints a table of the most recent runs.",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Output.DB == "" {
		fmt.Fprintln(os.Stderr, "no run database configured (output.db)")
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.Output.DB); err != nil {
		fmt.Fprintf(os.Stderr, "run database %s: %v\n", cfg.Output.DB, err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(cfg.Output.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	runs, err := s.RecentRuns(cmd.Context(), runsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list runs: %v\n", err)
		os.Exit(1)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Started", "Took", "Raw", "Clean", "Dupes", "Filtered", "Malformed", "Parsed"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID[:min(8, len(r.RunID))],
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Duration.Round(time.Millisecond),
			r.RawRows,
			r.CleanRows,
			r.DroppedDuplicates,
			r.Filtered,
			r.Malformed,
			r.Parsed,
		})
	}
	t.Render()

	fmt.Printf("\nTotal: %d runs shown\n", len(runs))
	return nil
}
