// Package reconcile keeps the ledger consistent with upstream order
// state. A sweep has two phases: correct drift (non-terminal rows whose
// order is fulfilled or cancelled upstream get their status marker
// rewritten) and reorder (terminal rows are moved above open rows with
// a stable partition, via clear-and-rewrite).
//
// Sweeps run on demand over HTTP, from the sync command, and
// opportunistically after webhook processing. At most one sweep per
// store is in flight at a time.
package reconcile
