// Package stores holds the per-store registry: each Shopify shop with its
// admin API credentials, webhook secret, and target spreadsheet id.
//
// The registry is loaded once at startup from a JSON file and validated
// eagerly, so a store with missing credentials prevents the process from
// serving at all instead of failing on the first webhook.
package stores
