package config

import (
	"marathon-scraper/fetcher"
	"marathon-scraper/models"
	"marathon-scraper/parser"
	"marathon-scraper/record"
)

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Endpoint: fetcher.DefaultEndpoint(),
			Genders:  []models.Gender{models.GenderMale, models.GenderFemale},
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 10,
			PageSize:       25,
			PageLimit:      0,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Selectors: parser.DefaultSelectors(),
		Columns:   record.DefaultColumns(),
		Output: OutputConfig{
			Encoding: "utf-8",
			Quoting:  "wrap",
		},
		Logging: LoggingConfig{
			File:  "output.log",
			Level: "info",
		},
		Sheets: SheetsConfig{
			SheetPrefix: "Results",
		},
		Notify: NotifyConfig{
			TokenEnv: "MARATHON_TG_TOKEN",
		},
	}
}
