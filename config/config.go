package config

import (
	"fmt"
	"os"
	"time"

	"marathon-scraper/fetcher"
	"marathon-scraper/models"
	"marathon-scraper/parser"
	"marathon-scraper/record"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration
type Config struct {
	Source    SourceConfig     `yaml:"source"`
	Fetch     FetchConfig      `yaml:"fetch"`
	Selectors parser.Selectors `yaml:"selectors"`
	Columns   record.ColumnMap `yaml:"columns"`
	Output    OutputConfig     `yaml:"output"`
	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Sheets    SheetsConfig     `yaml:"sheets"`
	Notify    NotifyConfig     `yaml:"notify"`
}

// SourceConfig describes the results endpoint and the gender passes to run
type SourceConfig struct {
	fetcher.Endpoint `yaml:",inline"`
	Genders          []models.Gender `yaml:"genders"`
}

// FetchConfig controls paging and transport
type FetchConfig struct {
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	PageSize       int     `yaml:"page_size"`
	PageLimit      int     `yaml:"page_limit"` // per gender, 0 = unlimited
	UserAgent      string  `yaml:"user_agent"`
	Browser        bool    `yaml:"browser"`
}

// RequestTimeout converts TimeoutSeconds into a duration. A non-positive value
// means no timeout and yields zero.
func (f FetchConfig) RequestTimeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(f.TimeoutSeconds * float64(time.Second))
}

type OutputConfig struct {
	Encoding string `yaml:"encoding"`
	Quoting  string `yaml:"quoting"` // "wrap" or "csv"
}

type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type TelemetryConfig struct {
	OtlpEndpoint string `yaml:"otlp_endpoint"`
}

type SheetsConfig struct {
	SpreadsheetURL string `yaml:"spreadsheet_url"`
	Credentials    string `yaml:"credentials"`
	SheetPrefix    string `yaml:"sheet_prefix"`
}

type NotifyConfig struct {
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	TokenEnv       string `yaml:"token_env"`
}

// Load reads a YAML configuration file on top of DefaultConfig
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
