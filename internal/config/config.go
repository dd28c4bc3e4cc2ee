package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "SALARYNORM_CONFIG"

// DefaultPath is the config file looked up when neither --config nor EnvVar
// is set.
const DefaultPath = "config.yaml"

// Config is the root configuration for the salary cleaning pipeline.
type Config struct {
	Input        string
	Output       OutputConfig
	Report       ReportConfig
	Workers      int // 0 means one per CPU
	Filters      FilterConfig
	Schedule     ScheduleConfig
	Notification NotificationConfig
}

// OutputConfig lists where clean records are written. An empty path disables
// that output.
type OutputConfig struct {
	CSV       string
	JSON      string
	Excel     string
	DB        string
	Retention time.Duration // runs older than this are pruned from DB; 0 keeps all
}

// ReportConfig controls the summary report.
type ReportConfig struct {
	Summary string // Markdown summary path
	TopN    int    // industries/cities ranked
}

// ScheduleConfig controls daemon mode.
type ScheduleConfig struct {
	Cron        string
	RunOnStart  bool
	MetricsAddr string        // empty disables the /metrics endpoint
	Timeout     time.Duration // per-run timeout
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// FilterConfig holds keyword and city filter settings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Cities               []string `yaml:"cities"`
	ExcludeCities        []string `yaml:"exclude_cities"`
}

const (
	defaultInput       = "data/raw/jobs.jsonl"
	defaultCSV         = "data/processed/jobs_clean.csv"
	defaultJSON        = "data/processed/jobs_clean.json"
	defaultDB          = "data/salarynorm.db"
	defaultSummary     = "reports/summary.md"
	defaultTopN        = 10
	defaultCron        = "0 3 1 * *"
	defaultMetricsAddr = ":9090"
	defaultRunTimeout  = 30 * time.Minute
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Input        string             `yaml:"input"`
	Output       rawOutputConfig    `yaml:"output"`
	Report       rawReportConfig    `yaml:"report"`
	Workers      int                `yaml:"workers"`
	Filters      FilterConfig       `yaml:"filters"`
	Schedule     rawScheduleConfig  `yaml:"schedule"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawOutputConfig struct {
	CSV       *string `yaml:"csv"`
	JSON      *string `yaml:"json"`
	Excel     string  `yaml:"excel"`
	DB        *string `yaml:"db"`
	Retention string  `yaml:"retention"`
}

type rawReportConfig struct {
	Summary string `yaml:"summary"`
	TopN    int    `yaml:"top_n"`
}

type rawScheduleConfig struct {
	Cron        string  `yaml:"cron"`
	RunOnStart  bool    `yaml:"run_on_start"`
	MetricsAddr *string `yaml:"metrics_addr"`
	Timeout     string  `yaml:"timeout"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, _ := build(rawConfig{})
	return cfg
}

// Resolve picks the config path: flagPath if set, else $SALARYNORM_CONFIG,
// else DefaultPath. explicit reports whether the path was asked for, in which
// case a missing file is an error.
func Resolve(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// LoadOrDefault loads the resolved config file. A missing file at the implicit
// default path yields Default().
func LoadOrDefault(flagPath string) (*Config, error) {
	path, explicit := Resolve(flagPath)
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return build(raw)
}

func build(raw rawConfig) (*Config, error) {
	var err error

	retention := time.Duration(0)
	if raw.Output.Retention != "" {
		retention, err = time.ParseDuration(raw.Output.Retention)
		if err != nil {
			return nil, fmt.Errorf("parse output.retention %q: %w", raw.Output.Retention, err)
		}
	}

	timeout := defaultRunTimeout
	if raw.Schedule.Timeout != "" {
		timeout, err = time.ParseDuration(raw.Schedule.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse schedule.timeout %q: %w", raw.Schedule.Timeout, err)
		}
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	cfg := &Config{
		Input: orDefault(raw.Input, defaultInput),
		Output: OutputConfig{
			CSV:       optionalPath(raw.Output.CSV, defaultCSV),
			JSON:      optionalPath(raw.Output.JSON, defaultJSON),
			Excel:     raw.Output.Excel,
			DB:        optionalPath(raw.Output.DB, defaultDB),
			Retention: retention,
		},
		Report: ReportConfig{
			Summary: orDefault(raw.Report.Summary, defaultSummary),
			TopN:    raw.Report.TopN,
		},
		Workers: raw.Workers,
		Filters: raw.Filters,
		Schedule: ScheduleConfig{
			Cron:        orDefault(raw.Schedule.Cron, defaultCron),
			RunOnStart:  raw.Schedule.RunOnStart,
			MetricsAddr: optionalPath(raw.Schedule.MetricsAddr, defaultMetricsAddr),
			Timeout:     timeout,
		},
		Notification: notification,
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = defaultTopN
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Input) == "" {
		return fmt.Errorf("input must not be empty")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must be positive, got %d", cfg.Report.TopN)
	}
	if cfg.Output.Retention < 0 {
		return fmt.Errorf("output.retention must not be negative, got %v", cfg.Output.Retention)
	}
	if cfg.Schedule.Timeout <= 0 {
		return fmt.Errorf("schedule.timeout must be positive, got %v", cfg.Schedule.Timeout)
	}
	if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron %q: %w", cfg.Schedule.Cron, err)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// optionalPath returns def when the key is absent and the given value
// (possibly empty, which disables the output) when it is present.
func optionalPath(v *string, def string) string {
	if v == nil {
		return def
	}
	return strings.TrimSpace(*v)
}
