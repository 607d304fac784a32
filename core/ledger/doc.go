// Package ledger defines the persisted spreadsheet layout shared by the
// export and reconcile features: the fixed positional columns, the status
// marker vocabulary, and helpers for addressing cells in A1 notation.
//
// The order reference column is the ledger's identity: at most one row per
// reference per spreadsheet.
package ledger
