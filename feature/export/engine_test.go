package export

import (
	"testing"

	"github.com/chafiq1992/shopify-to-sheets/core/cities"
	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	"github.com/chafiq1992/shopify-to-sheets/feature/export/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		TriggerTag:                "pc",
		ExtractedTag:              "1",
		AcceptedFinancialStatuses: "paid,pending,unpaid",
		CacheTTLSeconds:           120,
	}
}

func testEngine() *Engine {
	normalizer := cities.NewNormalizer(
		map[string]string{"casa": "Casablanca"},
		[]string{"casablanca", "rabat", "kenitra"},
	)
	return NewEngine(normalizer, testConfig())
}

func mustEvent(t *testing.T, body string) *models.OrderEvent {
	t.Helper()
	event, err := models.ParseOrderEvent([]byte(body))
	require.NoError(t, err)
	return event
}

func refs(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func TestDecide_Skips(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name   string
		body   string
		known  map[string]struct{}
		reason string
	}{
		{
			name:   "no trigger tag",
			body:   `{"name": "#1001", "tags": "urgent", "financial_status": "paid"}`,
			known:  refs(),
			reason: ReasonNoTriggerTag,
		},
		{
			name:   "trigger tag gate applies to known references too",
			body:   `{"name": "#1001", "tags": "", "fulfillment_status": "fulfilled"}`,
			known:  refs("#1001"),
			reason: ReasonNoTriggerTag,
		},
		{
			name:   "known and still open",
			body:   `{"name": "#1001", "tags": "pc", "financial_status": "paid"}`,
			known:  refs("#1001"),
			reason: ReasonAlreadyExported,
		},
		{
			name:   "unknown but already fulfilled",
			body:   `{"name": "#1002", "tags": "pc", "fulfillment_status": "fulfilled", "financial_status": "paid"}`,
			known:  refs(),
			reason: ReasonStatusExcluded,
		},
		{
			name:   "unknown but closed",
			body:   `{"name": "#1002", "tags": "pc", "closed_at": "2026-01-02T10:00:00Z", "financial_status": "paid"}`,
			known:  refs(),
			reason: ReasonStatusExcluded,
		},
		{
			name:   "financial status not accepted",
			body:   `{"name": "#1002", "tags": "pc", "financial_status": "voided"}`,
			known:  refs(),
			reason: ReasonStatusExcluded,
		},
		{
			name:   "already tagged as extracted",
			body:   `{"name": "#1002", "tags": "pc, 1", "financial_status": "paid"}`,
			known:  refs(),
			reason: ReasonAlreadyTagged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(mustEvent(t, tt.body), tt.known)
			assert.Equal(t, KindSkip, d.Kind)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestDecide_UpdateStatus(t *testing.T) {
	e := testEngine()

	d := e.Decide(mustEvent(t, `{"name": "#1001", "tags": "pc", "fulfillment_status": "fulfilled"}`), refs("#1001"))
	assert.Equal(t, KindUpdateStatus, d.Kind)
	assert.Equal(t, ledger.StatusFulfilled, d.Status)

	// Cancellation wins over fulfillment.
	d = e.Decide(mustEvent(t, `{"name": "#1001", "tags": "pc", "fulfillment_status": "fulfilled", "cancelled_at": "2026-01-02T10:00:00Z"}`), refs("#1001"))
	assert.Equal(t, KindUpdateStatus, d.Kind)
	assert.Equal(t, ledger.StatusCancelled, d.Status)
}

func TestDecide_ExportNew(t *testing.T) {
	e := testEngine()

	event := mustEvent(t, `{
		"name": "#1001",
		"created_at": "2026-01-02T10:30:00Z",
		"tags": "pc, urgent",
		"financial_status": "paid",
		"total_outstanding": "199.99",
		"note": "call before delivery",
		"shipping_address": {
			"name": "Amina B",
			"phone": "+212612345678",
			"address1": "Rue 5, Maarif",
			"city": "casa"
		},
		"line_items": [{"quantity": 2, "title": "Blue Shirt"}]
	}`)

	d := e.Decide(event, refs("#1000"))
	require.Equal(t, KindExportNew, d.Kind)
	assert.Equal(t, "#1001", d.Reference)

	row := d.Row
	assert.Equal(t, "2026-01-02 10:30", row.CreatedAt)
	assert.Equal(t, "#1001", row.Reference)
	assert.Equal(t, "Amina B", row.ShippingName)
	assert.Equal(t, "0612345678", row.Phone)
	assert.Equal(t, "199", row.TotalPrice)
	assert.Equal(t, "Casablanca", row.City)
	assert.Equal(t, "2x Blue Shirt", row.LineItems)
	assert.Equal(t, "call before delivery", row.Note)
	assert.Equal(t, ledger.StatusNone, row.Status)
}

// The same event against the same known references always produces the
// same decision, so duplicate webhook deliveries are harmless.
func TestDecide_Deterministic(t *testing.T) {
	e := testEngine()
	known := refs("#1000")
	body := `{"name": "#1001", "tags": "pc", "financial_status": "paid"}`

	first := e.Decide(mustEvent(t, body), known)
	second := e.Decide(mustEvent(t, body), known)
	assert.Equal(t, first, second)
}
