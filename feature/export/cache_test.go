package export

import (
	"context"
	"testing"
	"time"

	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets/mocks"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testStore() *stores.Store {
	return &stores.Store{
		Name:          "irrakids",
		ShopDomain:    "irrakids.myshopify.com",
		SpreadsheetID: "sheet-a",
		WebhookSecret: "secret-a",
	}
}

func ledgerRows(refsInOrder ...string) [][]string {
	rows := [][]string{ledger.Header()}
	for _, ref := range refsInOrder {
		rows = append(rows, []string{"2026-01-02 10:30", ref})
	}
	return rows
}

func TestKnownRefs_TTL(t *testing.T) {
	client := new(mocks.Client)
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(ledgerRows("#1001"), nil).Once()

	cache := NewRefCache(client, 120*time.Second)
	now := time.Now()
	cache.now = func() time.Time { return now }

	store := testStore()

	refs, err := cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)
	assert.Contains(t, refs, "#1001")

	// Within the TTL the second lookup is served from memory.
	refs, err = cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)
	assert.Contains(t, refs, "#1001")
	client.AssertExpectations(t)

	// Past the TTL the ledger is re-read.
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(ledgerRows("#1001", "#1002"), nil).Once()
	now = now.Add(121 * time.Second)

	refs, err = cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)
	assert.Contains(t, refs, "#1002")
	client.AssertExpectations(t)
}

func TestKnownRefs_RefreshFailurePropagates(t *testing.T) {
	client := new(mocks.Client)
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(nil, assert.AnError)

	cache := NewRefCache(client, 120*time.Second)

	_, err := cache.KnownRefs(context.Background(), testStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to refresh known references")
}

func TestRefresh_BypassesTTL(t *testing.T) {
	client := new(mocks.Client)
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(ledgerRows("#1001"), nil).Once()
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(ledgerRows("#1001", "#1002"), nil).Once()

	cache := NewRefCache(client, 120*time.Second)
	store := testStore()

	_, err := cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)

	// Refresh re-reads even though the entry is still fresh.
	refs, err := cache.Refresh(context.Background(), store)
	require.NoError(t, err)
	assert.Contains(t, refs, "#1002")
	client.AssertExpectations(t)
}

func TestAdd(t *testing.T) {
	client := new(mocks.Client)
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(ledgerRows("#1001"), nil).Once()

	cache := NewRefCache(client, 120*time.Second)
	store := testStore()

	before, err := cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)

	cache.Add(store, "#1002")

	after, err := cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)
	assert.Contains(t, after, "#1002")

	// Sets already handed out are never mutated.
	assert.NotContains(t, before, "#1002")
	client.AssertExpectations(t)
}

func TestAdd_NoEntryIsNoop(t *testing.T) {
	cache := NewRefCache(new(mocks.Client), 120*time.Second)
	cache.Add(testStore(), "#1002")
	assert.Empty(t, cache.entries)
}

func TestInvalidate(t *testing.T) {
	client := new(mocks.Client)
	client.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return(ledgerRows("#1001"), nil).Twice()

	cache := NewRefCache(client, 120*time.Second)
	store := testStore()

	_, err := cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)

	cache.Invalidate(store)

	_, err = cache.KnownRefs(context.Background(), store)
	require.NoError(t, err)
	client.AssertExpectations(t)
}
