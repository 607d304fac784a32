package ledger

import (
	"fmt"
	"strings"
)

// Sheet layout: row 1 is the header, data starts at row 2, and the status
// marker lives in the last column (L).
const (
	SheetName = "Sheet1"
	// DataRange covers every ledger column.
	DataRange = SheetName + "!A:L"
	// AppendRange is where new rows are appended.
	AppendRange = SheetName + "!A1"
	// ColumnCount is the fixed number of ledger columns.
	ColumnCount = 12
	// FirstDataRow is the 1-based sheet row where data starts.
	FirstDataRow = 2

	colReference = 1
	colStatus    = 11
)

// Status is the terminal-state marker stored in the last ledger column.
type Status string

const (
	StatusNone      Status = ""
	StatusFulfilled Status = "FULFILLED"
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal reports whether the status marks a finished order.
func (s Status) IsTerminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// ParseStatus normalizes a raw status cell value.
func ParseStatus(cell string) Status {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case string(StatusFulfilled):
		return StatusFulfilled
	case string(StatusCancelled):
		return StatusCancelled
	default:
		return StatusNone
	}
}

// TerminalStatus computes the marker for an order's upstream state.
// Cancellation takes precedence over fulfillment.
func TerminalStatus(cancelled bool, fulfillmentStatus string) Status {
	if cancelled {
		return StatusCancelled
	}
	if strings.EqualFold(strings.TrimSpace(fulfillmentStatus), "fulfilled") {
		return StatusFulfilled
	}
	return StatusNone
}

// Row is one ledger record in positional column order.
type Row struct {
	CreatedAt    string
	Reference    string
	ShippingName string
	Phone        string
	AddressLine1 string
	TotalPrice   string
	City         string
	LineItems    string
	Note         string
	Tags         string
	NoteDup      string
	Status       Status
}

// Cells returns the row as a fixed-width cell slice.
func (r Row) Cells() []string {
	return []string{
		r.CreatedAt,
		r.Reference,
		r.ShippingName,
		r.Phone,
		r.AddressLine1,
		r.TotalPrice,
		r.City,
		r.LineItems,
		r.Note,
		r.Tags,
		r.NoteDup,
		string(r.Status),
	}
}

// Header returns the fixed header row.
func Header() []string {
	return []string{
		"Created At", "Order", "Name", "Phone", "Address", "Price",
		"City", "Items", "Note", "Tags", "Note 2", "Status",
	}
}

// CellAt returns the cell at the given column, tolerating short rows.
func CellAt(cells []string, col int) string {
	if col < len(cells) {
		return cells[col]
	}
	return ""
}

// ReferenceOf extracts the order reference from a raw cell slice.
func ReferenceOf(cells []string) string {
	return strings.TrimSpace(CellAt(cells, colReference))
}

// StatusOf extracts the status marker from a raw cell slice.
func StatusOf(cells []string) Status {
	return ParseStatus(CellAt(cells, colStatus))
}

// StatusCellRef returns the A1 reference of the status cell for a sheet row.
func StatusCellRef(sheetRow int) string {
	return fmt.Sprintf("%s!L%d", SheetName, sheetRow)
}

// References collects the set of order references from raw ledger rows,
// skipping the header row.
func References(rows [][]string) map[string]struct{} {
	refs := make(map[string]struct{})
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		if ref := ReferenceOf(cells); ref != "" {
			refs[ref] = struct{}{}
		}
	}
	return refs
}
