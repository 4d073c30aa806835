package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pav-beep/calorie.app/config"
	"github.com/pav-beep/calorie.app/internal/models"
)

// Spreadsheet cell layout of the Logs sheet, columns A through H.
const logsColumns = "A:H"

// Timestamp formats accepted when reading back the Logs sheet. Rows are
// written in RFC 3339, but cells edited by hand tend to lose the zone.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SheetsStore reads and appends rows in the hosted spreadsheet backing
// the ledger.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	usersSheet    string
	logsSheet     string
}

// NewSheetsStore creates a Sheets-backed store using a service account
// credentials file.
func NewSheetsStore(ctx context.Context, cfg *config.Config) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	log.Printf("[SheetsStore] Using spreadsheet %s (%s/%s)", cfg.SpreadsheetID, cfg.UsersSheet, cfg.LogsSheet)
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		usersSheet:    cfg.UsersSheet,
		logsSheet:     cfg.LogsSheet,
	}, nil
}

// AuthorizedEmails fetches column A of the Users sheet. Row 1 is the
// header and is skipped.
func (s *SheetsStore) AuthorizedEmails(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.usersSheet+"!A2:A").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading users sheet: %v", models.ErrConnection, err)
	}

	emails := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if email, ok := row[0].(string); ok && strings.TrimSpace(email) != "" {
			emails = append(emails, strings.TrimSpace(email))
		}
	}
	return emails, nil
}

// Append adds one row to the Logs sheet.
func (s *SheetsStore) Append(ctx context.Context, entry models.LogEntry) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{
			entry.Identity,
			entry.Timestamp.Format(time.RFC3339),
			entry.FoodName,
			string(entry.Calories),
			string(entry.Protein),
			string(entry.Carbs),
			string(entry.Fat),
			entry.Micros,
		}},
	}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.logsSheet+"!"+logsColumns, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: appending log row: %v", models.ErrStore, err)
	}
	return nil
}

// Entries fetches the full Logs sheet, skipping the header row.
func (s *SheetsStore) Entries(ctx context.Context) ([]models.LogEntry, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.logsSheet+"!A2:H").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading logs sheet: %v", models.ErrConnection, err)
	}

	entries := make([]models.LogEntry, 0, len(resp.Values))
	for i, row := range resp.Values {
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, fmt.Errorf("%w: logs row %d: %v", models.ErrDataFormat, i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func rowToEntry(row []interface{}) (models.LogEntry, error) {
	ts, err := parseTimestamp(cell(row, 1))
	if err != nil {
		return models.LogEntry{}, err
	}
	return models.LogEntry{
		Identity:  cell(row, 0),
		Timestamp: ts,
		FoodName:  cell(row, 2),
		Calories:  models.Macro(cell(row, 3)),
		Protein:   models.Macro(cell(row, 4)),
		Carbs:     models.Macro(cell(row, 5)),
		Fat:       models.Macro(cell(row, 6)),
		Micros:    cell(row, 7),
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// cell returns the string value of column i, tolerating short rows.
func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", row[i])
}
