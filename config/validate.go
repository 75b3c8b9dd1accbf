package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/htmlindex"
)

// ValidationError lists every problem found in a configuration
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the Config for required fields and valid values
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Source.URLTemplate == "" {
		errs = append(errs, "source.url_template must not be empty")
	} else if !strings.Contains(cfg.Source.URLTemplate, "{year}") {
		errs = append(errs, "source.url_template must contain {year}")
	}
	if len(cfg.Source.Genders) == 0 {
		errs = append(errs, "source.genders must not be empty")
	}
	for _, g := range cfg.Source.Genders {
		if strings.TrimSpace(string(g)) == "" {
			errs = append(errs, "source.genders must not contain empty values")
			break
		}
	}

	if cfg.Fetch.PageSize <= 0 {
		errs = append(errs, fmt.Sprintf("fetch.page_size must be positive (got %d)", cfg.Fetch.PageSize))
	}
	if cfg.Fetch.PageLimit < 0 {
		errs = append(errs, fmt.Sprintf("fetch.page_limit must not be negative (got %d)", cfg.Fetch.PageLimit))
	}

	if cfg.Selectors.Rows == "" {
		errs = append(errs, "selectors.rows must not be empty")
	}
	if cfg.Selectors.Cells == "" {
		errs = append(errs, "selectors.cells must not be empty")
	}
	if cfg.Selectors.Pagination == "" {
		errs = append(errs, "selectors.pagination must not be empty")
	}
	if len(cfg.Selectors.NextMarkers) == 0 {
		errs = append(errs, "selectors.next_markers must not be empty")
	}

	if cfg.Columns.MinCells < 1 {
		errs = append(errs, fmt.Sprintf("columns.min_cells must be at least 1 (got %d)", cfg.Columns.MinCells))
	} else {
		positions := cfg.Columns.Positions()
		names := make([]string, 0, len(positions))
		for name := range positions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if pos := positions[name]; pos < 0 || pos >= cfg.Columns.MinCells {
				errs = append(errs, fmt.Sprintf("columns.%s must be in [0, %d) (got %d)", name, cfg.Columns.MinCells, pos))
			}
		}
	}

	if _, err := htmlindex.Get(cfg.Output.Encoding); err != nil {
		errs = append(errs, fmt.Sprintf("output.encoding %q is not a known encoding", cfg.Output.Encoding))
	}
	if cfg.Output.Quoting != "wrap" && cfg.Output.Quoting != "csv" {
		errs = append(errs, fmt.Sprintf("output.quoting must be one of: wrap, csv (got %q)", cfg.Output.Quoting))
	}

	if cfg.Logging.File == "" {
		errs = append(errs, "logging.file must not be empty")
	}
	if _, err := logrus.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
	}

	if cfg.Sheets.SpreadsheetURL != "" && !strings.Contains(cfg.Sheets.SpreadsheetURL, "/d/") {
		errs = append(errs, "sheets.spreadsheet_url must be a Google Sheets document URL")
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}

	return nil
}
