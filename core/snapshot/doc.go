// Package snapshot archives the full ledger to object storage right
// before the reconciler's clear-and-rewrite step.
//
// The rewrite is not transactional in the Sheets backend: a crash between
// clear and rewrite loses the sheet. A snapshot in the bucket turns that
// into a recoverable incident. Snapshots are optional; without a
// configured endpoint the sweep proceeds and the risk stands as
// documented.
package snapshot
