// Package pipeline runs one cleaning pass over a raw posting source.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/salarynorm/internal/dedup"
	"github.com/amishk599/salarynorm/internal/metrics"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/normalize"
)

// Cleaner owns the full cleaning pipeline:
// read → normalize → filter → dedup → write sinks → persist run → notify.
type Cleaner struct {
	source   model.RecordSource
	filter   model.RecordFilter
	sinks    []model.RecordSink
	store    model.RunStore
	notifier model.Notifier
	recorder metrics.Recorder
	workers  int
	logger   *slog.Logger

	// newSeen returns the duplicate set for one run.
	newSeen func() model.SeenSet
	now     func() time.Time
}

// NewCleaner creates a cleaner wired with all its dependencies. workers <= 0
// means one worker per CPU.
func NewCleaner(
	source model.RecordSource,
	filter model.RecordFilter,
	sinks []model.RecordSink,
	store model.RunStore,
	notifier model.Notifier,
	recorder metrics.Recorder,
	workers int,
	logger *slog.Logger,
) *Cleaner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Cleaner{
		source:   source,
		filter:   filter,
		sinks:    sinks,
		store:    store,
		notifier: notifier,
		recorder: recorder,
		workers:  workers,
		logger:   logger,
		newSeen:  func() model.SeenSet { return dedup.NewSet() },
		now:      time.Now,
	}
}

// Run executes one cleaning pass and returns its statistics. Malformed input
// lines are logged and counted; I/O failures abort the run.
func (c *Cleaner) Run(ctx context.Context) (model.RunStats, error) {
	stats := model.RunStats{
		RunID:     uuid.NewString(),
		StartedAt: c.now(),
	}

	records, err := c.run(ctx, &stats)
	stats.Duration = c.now().Sub(stats.StartedAt)
	c.recorder.ObserveRun(stats, err)
	if err != nil {
		return stats, err
	}

	c.logger.Info("cleaned postings",
		"run_id", stats.RunID,
		"raw_rows", stats.RawRows,
		"clean_rows", stats.CleanRows,
		"dropped", stats.DroppedDuplicates,
		"filtered", stats.Filtered,
		"malformed", stats.Malformed,
		"parsed", stats.Parsed,
		"unparsed", stats.Unparsed,
		"duration", stats.Duration.Round(time.Millisecond),
	)

	// The outputs are already written; a failed notification only gets logged.
	if err := c.notifier.Notify(ctx, stats); err != nil {
		c.logger.Error("notifying run summary", "run_id", stats.RunID, "error", err)
	}

	c.logger.Debug("run complete", "run_id", stats.RunID, "records", len(records))
	return stats, nil
}

func (c *Cleaner) run(ctx context.Context, stats *model.RunStats) ([]model.CleanRecord, error) {
	batch, err := c.source.ReadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading raw postings: %w", err)
	}
	for _, le := range batch.Skipped {
		c.logger.Warn("skipping malformed line", "error", le)
	}
	stats.Malformed = len(batch.Skipped)
	stats.RawRows = len(batch.Records)

	normalized, err := c.normalizeAll(ctx, batch.Records)
	if err != nil {
		return nil, err
	}

	seen := c.newSeen()
	clean := make([]model.CleanRecord, 0, len(normalized))
	for _, rec := range normalized {
		if !c.filter.Match(rec) {
			stats.Filtered++
			continue
		}
		if !seen.Add(rec.IdentityKey) {
			stats.DroppedDuplicates++
			c.logger.Debug("dropping duplicate", "key", rec.IdentityKey)
			continue
		}
		if rec.SalaryParsed {
			stats.Parsed++
		} else {
			stats.Unparsed++
		}
		c.recorder.ObserveRecord(rec)
		clean = append(clean, rec)
	}
	stats.CleanRows = len(clean)

	for _, sink := range c.sinks {
		if err := sink.WriteRecords(ctx, clean); err != nil {
			return nil, fmt.Errorf("writing %s output: %w", sink.Name(), err)
		}
		c.logger.Debug("wrote output", "sink", sink.Name(), "rows", len(clean))
	}

	if err := c.store.SaveRun(ctx, *stats, clean); err != nil {
		return nil, fmt.Errorf("saving run %s: %w", stats.RunID, err)
	}
	return clean, nil
}

// normalizeAll normalizes raw in parallel. Results keep input order, so the
// duplicate fold downstream always keeps the first occurrence.
func (c *Cleaner) normalizeAll(ctx context.Context, raw []model.RawPosting) ([]model.CleanRecord, error) {
	out := make([]model.CleanRecord, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range raw {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = normalize.Record(raw[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("normalizing postings: %w", err)
	}
	return out, nil
}
