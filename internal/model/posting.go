package model

import (
	"context"
	"time"
)

// RawPosting is one scraped job posting as written to the line-delimited raw
// store. Salary bounds may already be filled by a structured source (JSON-LD);
// otherwise only SalaryRaw is set.
type RawPosting struct {
	JobTitle      string `json:"job_title"`
	SalaryRaw     string `json:"salary_raw"`
	SalaryMin     *int   `json:"salary_min,omitempty"`
	SalaryMax     *int   `json:"salary_max,omitempty"`
	SalaryPeriod  string `json:"salary_period,omitempty"`
	SalaryMonths  *int   `json:"salary_months,omitempty"`
	SalaryParsed  bool   `json:"salary_parsed,omitempty"`
	CompanyName   string `json:"company_name"`
	Industry      string `json:"industry"`
	City          string `json:"city"`
	ExperienceReq string `json:"experience_req"`
	EducationReq  string `json:"education_req"`
	JobURL        string `json:"job_url"`
	CrawlTime     string `json:"crawl_time"`
}

// CleanRecord is a normalized posting ready for storage and reporting.
// Field order matches the clean CSV column order.
type CleanRecord struct {
	JobTitle         string `json:"job_title"`
	SalaryRaw        string `json:"salary_raw"`
	SalaryMin        *int   `json:"salary_min"`
	SalaryMax        *int   `json:"salary_max"`
	SalaryPeriod     string `json:"salary_period"`
	SalaryMonths     int    `json:"salary_months"`
	SalaryParsed     bool   `json:"salary_parsed"`
	CompanyName      string `json:"company_name"`
	Industry         string `json:"industry"`
	City             string `json:"city"`
	ExperienceReq    string `json:"experience_req"`
	ExperienceBucket string `json:"experience_bucket"`
	EducationReq     string `json:"education_req"`
	JobURL           string `json:"job_url"`
	CrawlTime        string `json:"crawl_time"`
	SalaryMid        *int   `json:"salary_mid"`
	SalaryAnnualEst  *int   `json:"salary_annual_est"`
	SalaryLevel      string `json:"salary_level"`
	IdentityKey      string `json:"identity_key"`
}

// RunStats summarizes one cleaning run.
type RunStats struct {
	RunID             string
	StartedAt         time.Time
	Duration          time.Duration
	RawRows           int
	CleanRows         int
	DroppedDuplicates int
	Filtered          int
	Malformed         int
	Parsed            int
	Unparsed          int
}

// Batch is the result of reading a raw source: the decoded postings plus the
// lines that could not be decoded.
type Batch struct {
	Records []RawPosting
	Skipped []*LineError
}

// RecordSource yields the raw postings of one run.
type RecordSource interface {
	ReadRecords(ctx context.Context) (Batch, error)
}

// RecordSink receives the clean records of one run.
type RecordSink interface {
	Name() string
	WriteRecords(ctx context.Context, records []CleanRecord) error
}

// RecordLoader reads previously written clean records back for reporting.
type RecordLoader interface {
	LoadRecords(ctx context.Context) ([]CleanRecord, error)
}

// RunStore persists runs and their clean records.
type RunStore interface {
	SaveRun(ctx context.Context, stats RunStats, records []CleanRecord) error
	RecordLoader
}

// SeenSet tracks identity keys within one run. Add reports whether key was
// new; check and insert happen atomically.
type SeenSet interface {
	Add(key string) bool
	Len() int
}

// RecordFilter decides whether a clean record is in scope for the run.
type RecordFilter interface {
	Match(rec CleanRecord) bool
}

// Notifier announces the outcome of a run.
type Notifier interface {
	Notify(ctx context.Context, stats RunStats) error
}
