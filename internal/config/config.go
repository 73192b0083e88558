package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Scraper   ScraperConfig   `yaml:"scraper" envconfig:"SCRAPER"`
	Workbook  WorkbookConfig  `yaml:"workbook" envconfig:"WORKBOOK"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`

	// source is the config file the values were read from, if any
	source string
}

// ScraperConfig configures the earnings page retriever
type ScraperConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required"`
	PageTimeout       time.Duration `yaml:"page_timeout" envconfig:"PAGE_TIMEOUT" validate:"gt=0"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" envconfig:"NAVIGATION_TIMEOUT" validate:"gt=0"`
	WindowDays        int           `yaml:"window_days" envconfig:"WINDOW_DAYS" validate:"min=1,max=365"`
	Headless          bool          `yaml:"headless" envconfig:"HEADLESS"`
	UserAgent         string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	ExecPath          string        `yaml:"exec_path" envconfig:"EXEC_PATH"`
	NoSandbox         bool          `yaml:"no_sandbox" envconfig:"NO_SANDBOX"`
	TopSelector       string        `yaml:"top_selector" envconfig:"TOP_SELECTOR" validate:"required"`
	BottomSelector    string        `yaml:"bottom_selector" envconfig:"BOTTOM_SELECTOR" validate:"required"`
	Workers           int           `yaml:"workers" envconfig:"WORKERS" validate:"min=1"`
	MinInterval       time.Duration `yaml:"min_interval" envconfig:"MIN_INTERVAL" validate:"gte=0"`
}

// WorkbookConfig describes the spreadsheet sweep
type WorkbookConfig struct {
	InputPath  string   `yaml:"input_path" envconfig:"INPUT_PATH" validate:"required"`
	OutputPath string   `yaml:"output_path" envconfig:"OUTPUT_PATH" validate:"required,nefield=InputPath"`
	Sheet      string   `yaml:"sheet" envconfig:"SHEET"`
	StartRow   int      `yaml:"start_row" envconfig:"START_ROW" validate:"min=1"`
	EndRow     int      `yaml:"end_row" envconfig:"END_ROW" validate:"gte=0"`
	Columns    []string `yaml:"columns" envconfig:"COLUMNS" validate:"required,min=1,dive,required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing, metrics and status listener configuration
type TelemetryConfig struct {
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	ListenAddr    string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`
}

// ColumnPair maps a ticker column to its destination date column
type ColumnPair struct {
	Ticker string
	Date   string
}

// Load builds the configuration: defaults, then the YAML file at path (or the
// first well-known location when path is empty), then .env, then EARNINGS_*
// environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// No default tags: envconfig only overwrites fields whose variable is set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto c
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	c.source = path
	return nil
}

// applyDefaults fills values that depend on other settings
func (c *Config) applyDefaults() {
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
}

// Source returns the config file path used by Load, or "" when none was found
func (c *Config) Source() string {
	return c.source
}

// Validate checks field constraints and the cross-field rules validator tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Scraper.Workers > MaxWorkers {
		return fmt.Errorf("scraper workers %d exceeds the maximum of %d", c.Scraper.Workers, MaxWorkers)
	}

	if n := strings.Count(c.Scraper.BaseURL, "%s"); n != 1 {
		return fmt.Errorf("scraper base_url must contain exactly one %%s placeholder, found %d", n)
	}

	if c.Workbook.EndRow != 0 && c.Workbook.EndRow < c.Workbook.StartRow {
		return fmt.Errorf("workbook end_row %d is before start_row %d", c.Workbook.EndRow, c.Workbook.StartRow)
	}

	pairs, err := c.Workbook.Pairs()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(pairs)*2)
	for _, p := range pairs {
		if seen[p.Date] {
			return fmt.Errorf("workbook column %s is used as a destination twice", p.Date)
		}
		seen[p.Date] = true
	}
	for _, p := range pairs {
		if seen[p.Ticker] {
			return fmt.Errorf("workbook column %s is both a ticker and a destination column", p.Ticker)
		}
	}

	if c.Telemetry.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.Telemetry.ListenAddr); err != nil {
			return fmt.Errorf("telemetry listen_addr %q: %w", c.Telemetry.ListenAddr, err)
		}
	}

	if p := c.Scraper.ExecPath; p != "" && filepath.IsAbs(p) && !FileExists(p) {
		return fmt.Errorf("scraper exec_path %s does not exist", p)
	}

	if c.Telemetry.EnableTracing && c.Telemetry.TraceFile == "" {
		return fmt.Errorf("telemetry trace_file is required when tracing is enabled")
	}

	return nil
}

// Pairs parses the "TICKER:DATE" column pairs, e.g. "A:C"
func (w WorkbookConfig) Pairs() ([]ColumnPair, error) {
	pairs := make([]ColumnPair, 0, len(w.Columns))
	for _, pair := range w.Columns {
		ticker, date, ok := strings.Cut(strings.TrimSpace(pair), ":")
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		date = strings.ToUpper(strings.TrimSpace(date))
		if !ok || !isColumnName(ticker) || !isColumnName(date) {
			return nil, fmt.Errorf("invalid workbook column pair %q, want TICKER:DATE such as A:C", pair)
		}
		if ticker == date {
			return nil, fmt.Errorf("workbook column pair %q writes into its own ticker column", pair)
		}
		pairs = append(pairs, ColumnPair{Ticker: ticker, Date: date})
	}
	return pairs, nil
}

func isColumnName(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// getConfigFilePath returns the first config file found in the common locations
func getConfigFilePath() string {
	locations := []string{
		"earnings.yaml",
		"configs/earnings.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			BaseURL:           DefaultBaseURL,
			PageTimeout:       DefaultPageTimeout,
			NavigationTimeout: DefaultNavigationTimeout,
			WindowDays:        DefaultWindowDays,
			Headless:          true,
			UserAgent:         DefaultUserAgent,
			TopSelector:       DefaultTopSelector,
			BottomSelector:    DefaultBottomSelector,
			Workers:           DefaultWorkers,
		},
		Workbook: WorkbookConfig{
			InputPath:  DefaultInputPath,
			OutputPath: DefaultOutputPath,
			StartRow:   DefaultStartRow,
			Columns:    append([]string(nil), DefaultColumns...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "console",
		},
		Telemetry: TelemetryConfig{
			Environment: "production",
		},
	}
}

// baseDir is the directory relative paths are resolved against
func (c *Config) baseDir() (string, error) {
	if c.source != "" {
		return filepath.Abs(filepath.Dir(c.source))
	}
	return os.Getwd()
}
