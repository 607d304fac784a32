// Package journal is an optional MySQL audit trail of ledger mutations:
// every exported row, webhook status update, and reconciler drift
// correction gets one entry.
//
// The connection is optional at startup. When no journal host is
// configured the Journal degrades to a no-op, and a journal write failure
// never aborts the mutation it describes.
package journal
