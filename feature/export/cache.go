package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"golang.org/x/sync/singleflight"
)

// cacheEntry is the known-reference set for one spreadsheet.
// A refresh replaces the whole entry; it is never partially updated.
type cacheEntry struct {
	refs      map[string]struct{}
	fetchedAt time.Time
}

// RefCache caches the set of order references already present in each
// store's ledger, bounded by a TTL. It is an injected component instance
// with no package-level state, so it can be built around a fake sheets
// client in tests.
//
// Refresh policy: concurrent callers of an expired entry share a single
// in-flight refresh via singleflight; nobody is served stale data, and a
// failed refresh propagates to every waiter. Reporting an empty or stale
// set on failure would cause duplicate exports.
type RefCache struct {
	client sheets.Client
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
	now     func() time.Time
}

// NewRefCache creates a reference cache with the given TTL.
func NewRefCache(client sheets.Client, ttl time.Duration) *RefCache {
	return &RefCache{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// KnownRefs returns the cached reference set for the store, refreshing it
// from the ledger when the entry is missing or older than the TTL.
func (c *RefCache) KnownRefs(ctx context.Context, store *stores.Store) (map[string]struct{}, error) {
	key := store.SpreadsheetID

	c.mu.Lock()
	entry, exists := c.entries[key]
	if exists && c.now().Sub(entry.fetchedAt) < c.ttl {
		refs := entry.refs
		c.mu.Unlock()
		return refs, nil
	}
	c.mu.Unlock()

	return c.refresh(ctx, store)
}

// Refresh bypasses the TTL and reads the authoritative reference set,
// replacing the cached entry. Used to narrow the race window right before
// an append.
func (c *RefCache) Refresh(ctx context.Context, store *stores.Store) (map[string]struct{}, error) {
	c.mu.Lock()
	delete(c.entries, store.SpreadsheetID)
	c.mu.Unlock()
	return c.refresh(ctx, store)
}

func (c *RefCache) refresh(ctx context.Context, store *stores.Store) (map[string]struct{}, error) {
	key := store.SpreadsheetID

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring the singleflight slot: a refresh
		// that finished while we waited is still fresh.
		c.mu.Lock()
		entry, exists := c.entries[key]
		if exists && c.now().Sub(entry.fetchedAt) < c.ttl {
			refs := entry.refs
			c.mu.Unlock()
			return refs, nil
		}
		c.mu.Unlock()

		rows, err := c.client.ReadRange(ctx, key, ledger.DataRange)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh known references for %s: %w", store.Name, err)
		}
		refs := ledger.References(rows)

		c.mu.Lock()
		c.entries[key] = &cacheEntry{refs: refs, fetchedAt: c.now()}
		c.mu.Unlock()

		return refs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]struct{}), nil
}

// Add inserts a reference into the live entry after a successful append,
// so an immediate duplicate delivery hits the cache instead of racing a
// refresh. The entry's set is replaced copy-on-write: reference sets
// already handed to callers are never mutated.
func (c *RefCache) Add(store *stores.Store, ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[store.SpreadsheetID]
	if !ok {
		return
	}
	refs := make(map[string]struct{}, len(entry.refs)+1)
	for r := range entry.refs {
		refs[r] = struct{}{}
	}
	refs[ref] = struct{}{}
	entry.refs = refs
}

// Invalidate drops the store's entry, forcing the next lookup to refresh.
func (c *RefCache) Invalidate(store *stores.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, store.SpreadsheetID)
}
