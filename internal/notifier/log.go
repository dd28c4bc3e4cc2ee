package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes run summaries to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each run summary via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the run summary. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, stats model.RunStats) error {
	n.logger.Info("run summary",
		"run_id", stats.RunID,
		"started_at", stats.StartedAt.Format(time.RFC3339),
		"raw_rows", stats.RawRows,
		"clean_rows", stats.CleanRows,
		"dropped", stats.DroppedDuplicates,
		"filtered", stats.Filtered,
		"malformed", stats.Malformed,
		"parse_rate", parseRate(stats),
	)
	return nil
}

// parseRate is the share of clean rows with a parsed salary, formatted as a
// percentage.
func parseRate(stats model.RunStats) string {
	if stats.CleanRows == 0 {
		return "n/a"
	}
	return formatPercent(float64(stats.Parsed) / float64(stats.CleanRows))
}
