package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure SQLiteStore implements model.RunStore.
var _ model.RunStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id             TEXT PRIMARY KEY,
	started_at         INTEGER NOT NULL,
	duration_ms        INTEGER NOT NULL,
	raw_rows           INTEGER NOT NULL,
	clean_rows         INTEGER NOT NULL,
	dropped_duplicates INTEGER NOT NULL,
	filtered           INTEGER NOT NULL,
	malformed          INTEGER NOT NULL,
	parsed             INTEGER NOT NULL,
	unparsed           INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS postings (
	run_id            TEXT NOT NULL REFERENCES runs(run_id),
	identity_key      TEXT NOT NULL,
	seq               INTEGER NOT NULL,
	job_title         TEXT,
	salary_raw        TEXT,
	salary_min        INTEGER,
	salary_max        INTEGER,
	salary_period     TEXT,
	salary_months     INTEGER,
	salary_parsed     INTEGER,
	company_name      TEXT,
	industry          TEXT,
	city              TEXT,
	experience_req    TEXT,
	experience_bucket TEXT,
	education_req     TEXT,
	job_url           TEXT,
	crawl_time        TEXT,
	salary_mid        INTEGER,
	salary_annual_est INTEGER,
	salary_level      TEXT,
	PRIMARY KEY (run_id, identity_key)
);`

// ErrNoRuns is returned by LoadRecords when nothing has been saved yet.
var ErrNoRuns = errors.New("no runs recorded")

// SQLiteStore keeps every cleaning run and its records in a SQLite file.
// Identity keys are unique per run only; nothing is deduplicated across runs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// runs and postings tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun records stats and all of its clean records in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, stats model.RunStats, records []model.CleanRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning run %s: %w", stats.RunID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (run_id, started_at, duration_ms, raw_rows, clean_rows,
		dropped_duplicates, filtered, malformed, parsed, unparsed) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.RunID, stats.StartedAt.UnixNano(), stats.Duration.Milliseconds(), stats.RawRows, stats.CleanRows,
		stats.DroppedDuplicates, stats.Filtered, stats.Malformed, stats.Parsed, stats.Unparsed)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", stats.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO postings (run_id, identity_key, seq, job_title,
		salary_raw, salary_min, salary_max, salary_period, salary_months, salary_parsed, company_name, industry,
		city, experience_req, experience_bucket, education_req, job_url, crawl_time, salary_mid,
		salary_annual_est, salary_level) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing posting insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx, stats.RunID, r.IdentityKey, i, r.JobTitle, r.SalaryRaw,
			nullInt(r.SalaryMin), nullInt(r.SalaryMax), r.SalaryPeriod, r.SalaryMonths, r.SalaryParsed,
			r.CompanyName, r.Industry, r.City, r.ExperienceReq, r.ExperienceBucket, r.EducationReq,
			r.JobURL, r.CrawlTime, nullInt(r.SalaryMid), nullInt(r.SalaryAnnualEst), r.SalaryLevel)
		if err != nil {
			return fmt.Errorf("inserting posting %s: %w", r.IdentityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", stats.RunID, err)
	}
	return nil
}

// LatestRunID returns the ID of the most recently started run.
func (s *SQLiteStore) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT run_id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("finding latest run: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]model.RunStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, started_at, duration_ms, raw_rows, clean_rows,
		dropped_duplicates, filtered, malformed, parsed, unparsed
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []model.RunStats
	for rows.Next() {
		var r model.RunStats
		var startedAt, durationMS int64
		if err := rows.Scan(&r.RunID, &startedAt, &durationMS, &r.RawRows, &r.CleanRows,
			&r.DroppedDuplicates, &r.Filtered, &r.Malformed, &r.Parsed, &r.Unparsed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// LoadRecords returns the records of the latest run in their original order.
func (s *SQLiteStore) LoadRecords(ctx context.Context) ([]model.CleanRecord, error) {
	runID, err := s.LatestRunID(ctx)
	if err != nil {
		return nil, err
	}
	return s.RunRecords(ctx, runID)
}

// RunRecords returns the records saved for runID.
func (s *SQLiteStore) RunRecords(ctx context.Context, runID string) ([]model.CleanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identity_key, job_title, salary_raw, salary_min, salary_max,
		salary_period, salary_months, salary_parsed, company_name, industry, city, experience_req,
		experience_bucket, education_req, job_url, crawl_time, salary_mid, salary_annual_est, salary_level
		FROM postings WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying postings for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.CleanRecord
	for rows.Next() {
		var r model.CleanRecord
		var lo, hi, mid, annual sql.NullInt64
		if err := rows.Scan(&r.IdentityKey, &r.JobTitle, &r.SalaryRaw, &lo, &hi, &r.SalaryPeriod,
			&r.SalaryMonths, &r.SalaryParsed, &r.CompanyName, &r.Industry, &r.City, &r.ExperienceReq,
			&r.ExperienceBucket, &r.EducationReq, &r.JobURL, &r.CrawlTime, &mid, &annual, &r.SalaryLevel); err != nil {
			return nil, fmt.Errorf("scanning posting: %w", err)
		}
		r.SalaryMin, r.SalaryMax = intPtr(lo), intPtr(hi)
		r.SalaryMid, r.SalaryAnnualEst = intPtr(mid), intPtr(annual)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating postings: %w", err)
	}
	return out, nil
}

// Cleanup deletes runs (and their postings) that started before olderThan ago.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixNano()
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM postings WHERE run_id IN (SELECT run_id FROM runs WHERE started_at < ?)", cutoff); err != nil {
		return fmt.Errorf("cleaning up postings older than %v: %w", olderThan, err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff); err != nil {
		return fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
