// Package sheets wraps the Google Sheets v4 API behind a small Client
// interface covering the operations the ledger needs: range reads, row
// appends, single-cell updates, and clear/replace for full rewrites.
//
// Every call carries a bounded timeout; a timed-out call surfaces as an
// error, never as an implicit success. The interface exists so the
// decision engine, cache, and reconciler can be tested against a mock
// (see the mocks subpackage).
package sheets
