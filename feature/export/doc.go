// Package export mirrors eligible Shopify orders into the ledger
// spreadsheet.
//
// The flow for one webhook: authenticate (per-store HMAC), parse the
// order event, consult the cached set of references already exported,
// and let the Engine decide between skipping, updating an existing
// row's status marker, and appending a new row.
//
// # Idempotency
//
// Webhook delivery is at-least-once, and Shopify replays events. The
// decision is a pure function of (event, known references); the append
// path re-reads the authoritative reference list immediately before
// writing. A narrow race window between that read and the append
// remains and is accepted: two deliveries of the same order landing in
// that window can produce a duplicate row, which the next sweep makes
// visible. Full mutual exclusion is deliberately not attempted against
// a remote spreadsheet.
//
// # Components
//
//   - Engine: the pure decision function.
//   - RefCache: TTL cache of known references with singleflight refresh.
//   - Service: applies decisions (append, status cell write, tag writeback).
//   - Handler: HTTP entry, signature verification, store resolution.
package export
