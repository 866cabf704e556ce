// =============================================================================
// Kannada P&L Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
// Every stage of the pipeline receives its paths, endpoint and layout from
// here instead of package-level constants, so each stage can be pointed at
// temporary files and a mock Tally service.
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults
//   2. config.yaml (optional)
//   3. .env file and PNL_* environment variables
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// BaseDir is the directory all relative paths are resolved against.
	// Default: "."
	BaseDir string `yaml:"base_dir"`

	// Tally holds the accounting service connection settings.
	Tally TallyConfig `yaml:"tally"`

	// Paths holds every file the pipeline reads or writes.
	Paths PathsConfig `yaml:"paths"`

	// Layout describes the body template.
	Layout LayoutConfig `yaml:"layout"`

	// Sections lists the header labels that open each P&L section.
	Sections SectionsConfig `yaml:"sections"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// TallyConfig holds the HTTP XML server settings.
type TallyConfig struct {
	// URL is the Tally HTTP XML server endpoint.
	// Default: "http://localhost:9000"
	URL string `yaml:"url"`

	// ProbeTimeout bounds the reachability check only.
	// Default: 5s
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// RequestTimeout bounds export requests. Zero means no timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// PathsConfig holds file locations. Relative paths are joined to BaseDir.
type PathsConfig struct {
	ExportFile      string `yaml:"export_file"`
	MappingFile     string `yaml:"mapping_file"`
	SyncLog         string `yaml:"sync_log"`
	BodyTemplate    string `yaml:"body_template"`
	HeaderTemplate  string `yaml:"header_template"`
	FooterTemplate  string `yaml:"footer_template"`
	BodyOutput      string `yaml:"body_output"`
	FinalOutput     string `yaml:"final_output"`
	HeaderWithMonth string `yaml:"header_with_month"`
}

// LayoutConfig describes where ledger rows go in the body template.
type LayoutConfig struct {
	// StartRow is the first data row (1-based). Its cells are the style
	// reference for every written row.
	// Default: 2
	StartRow int `yaml:"start_row"`

	ExpenseNameColumn   string `yaml:"expense_name_column"`
	ExpenseAmountColumn string `yaml:"expense_amount_column"`
	IncomeNameColumn    string `yaml:"income_name_column"`
	IncomeAmountColumn  string `yaml:"income_amount_column"`

	NameWidth   float64 `yaml:"name_width"`
	AmountWidth float64 `yaml:"amount_width"`

	// CurrencyFormat is the custom number format applied to amount cells.
	CurrencyFormat string `yaml:"currency_format"`

	// Placeholder is the literal token replaced by the month/year string.
	Placeholder string `yaml:"placeholder"`
}

// SectionsConfig lists section header labels.
type SectionsConfig struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.Tally.URL == "" {
		cfg.Tally.URL = "http://localhost:9000"
	}
	if cfg.Tally.ProbeTimeout == 0 {
		cfg.Tally.ProbeTimeout = 5 * time.Second
	}

	p := &cfg.Paths
	setDefault(&p.ExportFile, "exports/PandL.xml")
	setDefault(&p.MappingFile, "config/ledger_mapping.xlsx")
	setDefault(&p.SyncLog, "output/updated_mapping_log.txt")
	setDefault(&p.BodyTemplate, "config/template_kannada.xlsx")
	setDefault(&p.HeaderTemplate, "config/header_template.xlsx")
	setDefault(&p.FooterTemplate, "config/footer_template.xlsx")
	setDefault(&p.BodyOutput, "output/body_PnL.xlsx")
	setDefault(&p.FinalOutput, "output/final_PnL.xlsx")

	l := &cfg.Layout
	if l.StartRow == 0 {
		l.StartRow = 2
	}
	setDefault(&l.ExpenseNameColumn, "B")
	setDefault(&l.ExpenseAmountColumn, "C")
	setDefault(&l.IncomeNameColumn, "E")
	setDefault(&l.IncomeAmountColumn, "F")
	if l.NameWidth == 0 {
		l.NameWidth = 15
	}
	if l.AmountWidth == 0 {
		l.AmountWidth = 7
	}
	setDefault(&l.CurrencyFormat, "₹ #,##0.00")
	setDefault(&l.Placeholder, "$$monthYear$$")

	if len(cfg.Sections.Income) == 0 {
		cfg.Sections.Income = []string{"Direct Incomes", "Indirect Incomes"}
	}
	if len(cfg.Sections.Expense) == 0 {
		cfg.Sections.Expense = []string{"Direct Expenses", "Indirect Expenses"}
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies .env and environment overrides,
// fills defaults and validates the result.
//
// A missing config file is not an error: the tool runs on defaults so that
// it can be started with no flags at all.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional; a missing file is ignored.
	_ = godotenv.Load()
	applyEnv(&cfg)

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides selected fields from PNL_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PNL_TALLY_URL"); v != "" {
		cfg.Tally.URL = v
	}
	if v := os.Getenv("PNL_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("PNL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// validate checks the configuration for values that cannot work.
func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Tally.URL, "http://") && !strings.HasPrefix(cfg.Tally.URL, "https://") {
		return fmt.Errorf("tally.url must be an http(s) URL, got %q", cfg.Tally.URL)
	}
	if cfg.Layout.StartRow < 1 {
		return fmt.Errorf("layout.start_row must be >= 1, got %d", cfg.Layout.StartRow)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}

// =============================================================================
// PATH RESOLUTION
// =============================================================================

// Resolve returns path joined to BaseDir unless it is already absolute.
// An empty path stays empty.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}
