package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of sheets.Client
type Client struct {
	mock.Mock
}

func (m *Client) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	args := m.Called(ctx, spreadsheetID, readRange)
	if rows, ok := args.Get(0).([][]string); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []string) error {
	args := m.Called(ctx, spreadsheetID, appendRange, row)
	return args.Error(0)
}

func (m *Client) UpdateCell(ctx context.Context, spreadsheetID, cellRef, value string) error {
	args := m.Called(ctx, spreadsheetID, cellRef, value)
	return args.Error(0)
}

func (m *Client) ClearRange(ctx context.Context, spreadsheetID, clearRange string) error {
	args := m.Called(ctx, spreadsheetID, clearRange)
	return args.Error(0)
}

func (m *Client) ReplaceRange(ctx context.Context, spreadsheetID, replaceRange string, rows [][]string) error {
	args := m.Called(ctx, spreadsheetID, replaceRange, rows)
	return args.Error(0)
}
