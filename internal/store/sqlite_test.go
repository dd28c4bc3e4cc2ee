package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/salarynorm/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtrOf(v int) *int { return &v }

func makeRecords(keys ...string) []model.CleanRecord {
	recs := make([]model.CleanRecord, len(keys))
	for i, k := range keys {
		recs[i] = model.CleanRecord{
			JobTitle:         "Go开发工程师",
			SalaryRaw:        "15-20k·13薪",
			SalaryMin:        intPtrOf(15000),
			SalaryMax:        intPtrOf(20000),
			SalaryPeriod:     "monthly",
			SalaryMonths:     13,
			SalaryParsed:     true,
			CompanyName:      "testco",
			City:             "上海",
			ExperienceBucket: "3to5",
			SalaryMid:        intPtrOf(17500),
			SalaryAnnualEst:  intPtrOf(227500),
			SalaryLevel:      "15-20K",
			IdentityKey:      k,
		}
	}
	return recs
}

func TestSaveRunThenLoadRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recs := makeRecords("b", "a", "c")
	recs[1].SalaryMin, recs[1].SalaryMax, recs[1].SalaryMid, recs[1].SalaryAnnualEst = nil, nil, nil, nil
	recs[1].SalaryParsed = false

	stats := model.RunStats{RunID: "run-1", StartedAt: time.Now(), RawRows: 3, CleanRows: 3}
	if err := s.SaveRun(ctx, stats, recs); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("loaded %d records, want 3", len(got))
	}
	for i, want := range []string{"b", "a", "c"} {
		if got[i].IdentityKey != want {
			t.Errorf("record %d key = %q, want %q", i, got[i].IdentityKey, want)
		}
	}
	if got[0].SalaryMid == nil || *got[0].SalaryMid != 17500 {
		t.Errorf("SalaryMid = %v, want 17500", got[0].SalaryMid)
	}
	if got[1].SalaryMin != nil || got[1].SalaryMid != nil {
		t.Error("expected nil bounds to round-trip as nil")
	}
	if got[0].SalaryMonths != 13 || !got[0].SalaryParsed || got[0].City != "上海" {
		t.Errorf("unexpected record: %+v", got[0])
	}
}

func TestLoadRecordsReturnsLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := model.RunStats{RunID: "old", StartedAt: time.Now().Add(-time.Hour)}
	newer := model.RunStats{RunID: "new", StartedAt: time.Now()}
	if err := s.SaveRun(ctx, newer, makeRecords("n1")); err != nil {
		t.Fatalf("SaveRun new: %v", err)
	}
	if err := s.SaveRun(ctx, older, makeRecords("o1", "o2")); err != nil {
		t.Fatalf("SaveRun old: %v", err)
	}

	got, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 1 || got[0].IdentityKey != "n1" {
		t.Errorf("LoadRecords = %+v, want the single record of run %q", got, "new")
	}
}

func TestRecentRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"r1", "r2", "r3"} {
		stats := model.RunStats{
			RunID:     id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Millisecond,
			RawRows:   10 + i,
			CleanRows: 8,
		}
		if err := s.SaveRun(ctx, stats, nil); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns returned %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "r3" || runs[1].RunID != "r2" {
		t.Errorf("RecentRuns order = %s, %s; want r3, r2", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].RawRows != 12 || runs[0].Duration != 1500*time.Millisecond {
		t.Errorf("unexpected run: %+v", runs[0])
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("StartedAt = %v, want %v", runs[0].StartedAt, base.Add(2*time.Minute))
	}
}

func TestLoadRecordsEmptyStore(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadRecords(context.Background())
	if !errors.Is(err, ErrNoRuns) {
		t.Errorf("LoadRecords error = %v, want ErrNoRuns", err)
	}
}

func TestSaveRunDuplicateRunIDFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	stats := model.RunStats{RunID: "dup", StartedAt: time.Now()}

	if err := s.SaveRun(ctx, stats, makeRecords("a")); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}
	if err := s.SaveRun(ctx, stats, makeRecords("b")); err == nil {
		t.Fatal("expected error saving the same run twice")
	}

	// The failed transaction must not leave partial postings behind.
	got, err := s.RunRecords(ctx, "dup")
	if err != nil {
		t.Fatalf("RunRecords: %v", err)
	}
	if len(got) != 1 || got[0].IdentityKey != "a" {
		t.Errorf("RunRecords = %+v, want only the first run's record", got)
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := model.RunStats{RunID: "old", StartedAt: time.Now().Add(-48 * time.Hour)}
	fresh := model.RunStats{RunID: "fresh", StartedAt: time.Now()}
	if err := s.SaveRun(ctx, old, makeRecords("o")); err != nil {
		t.Fatalf("SaveRun old: %v", err)
	}
	if err := s.SaveRun(ctx, fresh, makeRecords("f")); err != nil {
		t.Fatalf("SaveRun fresh: %v", err)
	}

	if err := s.Cleanup(ctx, 24*time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	oldRecs, err := s.RunRecords(ctx, "old")
	if err != nil {
		t.Fatalf("RunRecords old: %v", err)
	}
	if len(oldRecs) != 0 {
		t.Error("expected old run postings to be removed")
	}
	freshRecs, err := s.RunRecords(ctx, "fresh")
	if err != nil {
		t.Fatalf("RunRecords fresh: %v", err)
	}
	if len(freshRecs) != 1 {
		t.Error("expected fresh run postings to remain")
	}
}

func TestNopStore(t *testing.T) {
	s := NewNopStore()
	if err := s.SaveRun(context.Background(), model.RunStats{}, makeRecords("a")); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := s.LoadRecords(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Errorf("LoadRecords error = %v, want ErrNoRuns", err)
	}
}
