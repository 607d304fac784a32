package sheets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client defines the interface for ledger spreadsheet operations.
// All operations address a single spreadsheet by its id.
type Client interface {
	// ReadRange reads all rows in the given A1 range.
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
	// AppendRow appends a single row after the last data row of the range.
	AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []string) error
	// UpdateCell writes a single value into the given A1 cell reference.
	UpdateCell(ctx context.Context, spreadsheetID, cellRef, value string) error
	// ClearRange clears all values in the given A1 range.
	ClearRange(ctx context.Context, spreadsheetID, clearRange string) error
	// ReplaceRange clears the range and writes the given rows from its top-left cell.
	ReplaceRange(ctx context.Context, spreadsheetID, replaceRange string, rows [][]string) error
}

// NewClient creates a Google Sheets client from a base64-encoded service
// account key. A missing key is a configuration error.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.CredentialsBase64 == "" {
		return nil, errors.New("missing sheets credentials (SHEETS_CREDENTIALS_BASE64)")
	}
	creds, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sheets credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &sheetsClientWrapper{
		svc:     svc,
		timeout: time.Duration(timeout) * time.Second,
	}, nil
}

type sheetsClientWrapper struct {
	svc     *sheetsapi.Service
	timeout time.Duration
}

func (c *sheetsClientWrapper) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *sheetsClientWrapper) AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, appendRange, &sheetsapi.ValueRange{Values: toValues([][]string{row})}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (c *sheetsClientWrapper) UpdateCell(ctx context.Context, spreadsheetID, cellRef, value string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, cellRef, &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cellRef, err)
	}
	return nil
}

func (c *sheetsClientWrapper) ClearRange(ctx context.Context, spreadsheetID, clearRange string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.
		Clear(spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", clearRange, err)
	}
	return nil
}

func (c *sheetsClientWrapper) ReplaceRange(ctx context.Context, spreadsheetID, replaceRange string, rows [][]string) error {
	if err := c.ClearRange(ctx, spreadsheetID, replaceRange); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, replaceRange, &sheetsapi.ValueRange{Values: toValues(rows)}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to rewrite range %s: %w", replaceRange, err)
	}
	return nil
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		vals := make([]interface{}, len(row))
		for j, cell := range row {
			vals[j] = cell
		}
		out[i] = vals
	}
	return out
}
