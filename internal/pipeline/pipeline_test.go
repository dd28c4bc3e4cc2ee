package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amishk599/salarynorm/internal/filter"
	"github.com/amishk599/salarynorm/internal/metrics"
	"github.com/amishk599/salarynorm/internal/model"
)

// --- Fakes ---

type staticSource struct {
	batch model.Batch
	err   error
}

func (s *staticSource) ReadRecords(_ context.Context) (model.Batch, error) {
	return s.batch, s.err
}

// memorySink keeps whatever it was asked to write.
type memorySink struct {
	name    string
	written []model.CleanRecord
	calls   int
	err     error
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) WriteRecords(_ context.Context, records []model.CleanRecord) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.written = append([]model.CleanRecord(nil), records...)
	return nil
}

type memoryStore struct {
	runs    []model.RunStats
	records []model.CleanRecord
}

func (s *memoryStore) SaveRun(_ context.Context, stats model.RunStats, records []model.CleanRecord) error {
	s.runs = append(s.runs, stats)
	s.records = records
	return nil
}

func (s *memoryStore) LoadRecords(_ context.Context) ([]model.CleanRecord, error) {
	return s.records, nil
}

// RecordingNotifier records every run summary sent to Notify.
type RecordingNotifier struct {
	Notified []model.RunStats
	Err      error
}

func (n *RecordingNotifier) Notify(_ context.Context, stats model.RunStats) error {
	n.Notified = append(n.Notified, stats)
	return n.Err
}

type rejectAll struct{}

func (rejectAll) Match(model.CleanRecord) bool { return false }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func posting(url, company, title, salary string) model.RawPosting {
	return model.RawPosting{
		JobTitle:      title,
		SalaryRaw:     salary,
		CompanyName:   company,
		City:          "上海市",
		ExperienceReq: "3-5年",
		JobURL:        url,
	}
}

func newTestCleaner(src model.RecordSource, f model.RecordFilter, sink *memorySink, st *memoryStore, n *RecordingNotifier, workers int) *Cleaner {
	return NewCleaner(src, f, []model.RecordSink{sink}, st, n, metrics.Nop{}, workers, discardLogger())
}

// --- Tests ---

func TestRun_DropsDuplicatesInInputOrder(t *testing.T) {
	src := &staticSource{batch: model.Batch{Records: []model.RawPosting{
		posting("https://x/1", "Acme", "Go Dev", "15-20k"),
		posting("https://x/2", "Acme", "Go Dev", "面议"),
		posting("https://X/1", " acme ", "go  dev", "30-40k"),
		posting("https://x/3", "Beta", "SRE", "8k-15k/月"),
		posting("https://x/2", "Acme", "Go Dev", "1-2万"),
	}}}

	for _, workers := range []int{1, 4, 16} {
		sink := &memorySink{name: "mem"}
		store := &memoryStore{}
		notifier := &RecordingNotifier{}

		stats, err := newTestCleaner(src, filter.AcceptAll{}, sink, store, notifier, workers).Run(context.Background())
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}

		if stats.RawRows != 5 || stats.CleanRows != 3 || stats.DroppedDuplicates != 2 {
			t.Errorf("workers=%d: stats = %+v, want raw 5, clean 3, dropped 2", workers, stats)
		}
		if len(sink.written) != 3 {
			t.Fatalf("workers=%d: wrote %d records, want 3", workers, len(sink.written))
		}
		// First occurrences win.
		if sink.written[0].SalaryRaw != "15-20k" || sink.written[1].SalaryRaw != "面议" {
			t.Errorf("workers=%d: unexpected survivors: %q, %q",
				workers, sink.written[0].SalaryRaw, sink.written[1].SalaryRaw)
		}
		if sink.written[2].CompanyName != "Beta" {
			t.Errorf("workers=%d: third record company = %q, want Beta", workers, sink.written[2].CompanyName)
		}
	}
}

func TestRun_KeepsUnparsedRecords(t *testing.T) {
	src := &staticSource{batch: model.Batch{Records: []model.RawPosting{
		posting("https://x/1", "Acme", "Go Dev", "面议"),
		posting("https://x/2", "Acme", "Go Dev", "15-20k·13薪"),
	}}}
	sink := &memorySink{name: "mem"}

	stats, err := newTestCleaner(src, filter.AcceptAll{}, sink, &memoryStore{}, &RecordingNotifier{}, 2).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Parsed != 1 || stats.Unparsed != 1 {
		t.Errorf("parsed/unparsed = %d/%d, want 1/1", stats.Parsed, stats.Unparsed)
	}
	unparsed := sink.written[0]
	if unparsed.SalaryParsed || unparsed.SalaryMin != nil || unparsed.SalaryMonths != 12 {
		t.Errorf("unparsed record = %+v, want defaults with nil bounds", unparsed)
	}
	if unparsed.City != "上海" || unparsed.ExperienceBucket != "3to5" {
		t.Errorf("city/bucket = %q/%q, want 上海/3to5", unparsed.City, unparsed.ExperienceBucket)
	}
}

func TestRun_StatsAreConsistent(t *testing.T) {
	src := &staticSource{batch: model.Batch{
		Records: []model.RawPosting{
			posting("https://x/1", "Acme", "Go Dev", "15-20k"),
			posting("https://x/1", "Acme", "Go Dev", "15-20k"),
			posting("https://x/2", "Acme", "Recruiter", "8k"),
		},
		Skipped: []*model.LineError{{Line: 2, Err: errors.New("bad json")}},
	}}
	f := filter.NewTitleAndCityFilter([]string{"dev"}, nil, nil, nil)
	notifier := &RecordingNotifier{}

	stats, err := NewCleaner(src, f, nil, &memoryStore{}, notifier, nil, 2, discardLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.RawRows != stats.CleanRows+stats.DroppedDuplicates+stats.Filtered {
		t.Errorf("raw %d != clean %d + dropped %d + filtered %d",
			stats.RawRows, stats.CleanRows, stats.DroppedDuplicates, stats.Filtered)
	}
	if stats.Filtered != 1 || stats.Malformed != 1 {
		t.Errorf("filtered/malformed = %d/%d, want 1/1", stats.Filtered, stats.Malformed)
	}
	if stats.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(notifier.Notified) != 1 || notifier.Notified[0].RunID != stats.RunID {
		t.Errorf("notifier got %+v, want one summary for run %s", notifier.Notified, stats.RunID)
	}
}

func TestRun_FilterRejectsAll(t *testing.T) {
	src := &staticSource{batch: model.Batch{Records: []model.RawPosting{
		posting("https://x/1", "Acme", "Go Dev", "15-20k"),
	}}}
	sink := &memorySink{name: "mem"}
	store := &memoryStore{}

	stats, err := newTestCleaner(src, rejectAll{}, sink, store, &RecordingNotifier{}, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.CleanRows != 0 || stats.Filtered != 1 {
		t.Errorf("stats = %+v, want 0 clean, 1 filtered", stats)
	}
	if sink.calls != 1 || len(sink.written) != 0 {
		t.Error("sink should still be written with an empty record set")
	}
	if len(store.runs) != 1 {
		t.Error("run should still be saved")
	}
}

func TestRun_SourceError(t *testing.T) {
	notifier := &RecordingNotifier{}
	sink := &memorySink{name: "mem"}

	_, err := newTestCleaner(&staticSource{err: errors.New("no such file")}, filter.AcceptAll{}, sink, &memoryStore{}, notifier, 1).
		Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if sink.calls != 0 || len(notifier.Notified) != 0 {
		t.Error("sinks and notifier should not be called on source error")
	}
}

func TestRun_SinkErrorAbortsBeforeStore(t *testing.T) {
	src := &staticSource{batch: model.Batch{Records: []model.RawPosting{
		posting("https://x/1", "Acme", "Go Dev", "15-20k"),
	}}}
	sink := &memorySink{name: "csv", err: errors.New("disk full")}
	store := &memoryStore{}

	_, err := newTestCleaner(src, filter.AcceptAll{}, sink, store, &RecordingNotifier{}, 1).Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(store.runs) != 0 {
		t.Error("run should not be saved when a sink fails")
	}
}

func TestRun_NotifierErrorIsNotFatal(t *testing.T) {
	src := &staticSource{batch: model.Batch{Records: []model.RawPosting{
		posting("https://x/1", "Acme", "Go Dev", "15-20k"),
	}}}
	notifier := &RecordingNotifier{Err: errors.New("slack down")}

	stats, err := newTestCleaner(src, filter.AcceptAll{}, &memorySink{name: "mem"}, &memoryStore{}, notifier, 1).
		Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CleanRows != 1 {
		t.Errorf("clean rows = %d, want 1", stats.CleanRows)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	src := &staticSource{batch: model.Batch{Records: []model.RawPosting{
		posting("https://x/1", "Acme", "Go Dev", "15-20k"),
	}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCleaner(src, filter.AcceptAll{}, &memorySink{name: "mem"}, &memoryStore{}, &RecordingNotifier{}, 1).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
