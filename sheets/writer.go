package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"marathon-scraper/models"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer streams finisher records into a new sheet of a Google spreadsheet.
// It implements output.Sink: rows are buffered and appended on every Flush.
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	pending       [][]interface{}
	log           *logrus.Logger
}

// NewWriter creates a new Google Sheets writer. Credentials come from the
// given service account file or the GOOGLE_SHEETS_CREDENTIALS environment variable.
func NewWriter(ctx context.Context, spreadsheetID, credentialsPath string, log *logrus.Logger) (*Writer, error) {
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return newWriter(ctx, spreadsheetID, log, option.WithCredentialsJSON(credsJSON))
}

func newWriter(ctx context.Context, spreadsheetID string, log *logrus.Logger, opts ...option.ClientOption) (*Writer, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// CreateSheet adds a sheet at the beginning of the spreadsheet; subsequent
// writes go to it. Returns the sanitized sheet name and its ID (gid).
func (w *Writer) CreateSheet(name string) (string, int64, error) {
	name = sanitizeSheetName(name)
	if len(name) > 100 {
		name = name[:100]
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: name,
						Index: 0,
					},
				},
			},
		},
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	w.sheetName = name
	w.log.Infof("Created sheet '%s' with ID %d", name, sheetID)
	return name, sheetID, nil
}

// WriteHeader implements output.Sink
func (w *Writer) WriteHeader(fields []string) error {
	w.pending = append(w.pending, toRow(fields))
	return nil
}

// Write implements output.Sink. Free-text fields are stored unquoted since
// each value lands in its own cell.
func (w *Writer) Write(rec models.Finisher) error {
	w.pending = append(w.pending, toRow(rec.RawValues()))
	return nil
}

// Flush implements output.Sink
func (w *Writer) Flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	if w.sheetName == "" {
		return fmt.Errorf("no sheet created")
	}

	valueRange := &sheets.ValueRange{Values: w.pending}
	_, err := w.service.Spreadsheets.Values.Append(w.spreadsheetID, w.sheetName+"!A1", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheet: %w", err)
	}

	w.log.Debugf("Appended %d rows to sheet '%s'", len(w.pending), w.sheetName)
	w.pending = nil
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// SheetURL returns a link that opens the given sheet of the spreadsheet
func SheetURL(spreadsheetID string, sheetID int64) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
