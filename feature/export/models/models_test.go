package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderEvent(t *testing.T) {
	body := []byte(`{
		"id": 123456789,
		"name": "#1001",
		"created_at": "2026-01-02T10:30:00+01:00",
		"tags": "pc, Urgent",
		"financial_status": "paid",
		"shipping_address": {
			"name": "Amina B",
			"phone": "+212612345678",
			"address1": "Rue 5, Maarif",
			"city": "casa"
		},
		"line_items": [
			{"quantity": 2, "title": "Blue Shirt", "variant_title": ""},
			{"quantity": 1, "title": "Hat", "variant_title": "Hat / Red"}
		]
	}`)

	event, err := ParseOrderEvent(body)
	require.NoError(t, err)

	assert.Equal(t, int64(123456789), event.ID)
	assert.Equal(t, "#1001", event.Name)
	assert.True(t, event.HasTag("pc"))
	assert.True(t, event.HasTag("URGENT"))
	assert.False(t, event.HasTag("1"))
	assert.Equal(t, "casa", event.ShippingAddress.City)
	assert.Len(t, event.LineItems, 2)
}

func TestParseOrderEvent_Invalid(t *testing.T) {
	_, err := ParseOrderEvent([]byte(`{broken`))
	assert.Error(t, err)

	_, err = ParseOrderEvent([]byte(`{"id": 1, "name": "  "}`))
	assert.Error(t, err)
}

func TestCancelledAndClosed(t *testing.T) {
	event, err := ParseOrderEvent([]byte(`{"name": "#1", "cancelled_at": "2026-01-02T10:00:00Z"}`))
	require.NoError(t, err)
	assert.True(t, event.Cancelled())
	assert.False(t, event.Closed())

	event, err = ParseOrderEvent([]byte(`{"name": "#2", "closed_at": "2026-01-02T10:00:00Z"}`))
	require.NoError(t, err)
	assert.False(t, event.Cancelled())
	assert.True(t, event.Closed())
}

func TestRawPrice(t *testing.T) {
	e := &OrderEvent{TotalOutstanding: "199.99"}
	assert.Equal(t, "199.99", e.RawPrice())

	e = &OrderEvent{}
	e.PresentmentTotal.ShopMoney.Amount = "250.00"
	assert.Equal(t, "250.00", e.RawPrice())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "199", FormatPrice("199.99"))
	assert.Equal(t, "250", FormatPrice("250.00"))
	assert.Equal(t, "0", FormatPrice("0"))
	assert.Equal(t, "not-a-number", FormatPrice("not-a-number"))
	assert.Equal(t, "", FormatPrice(""))
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+212612345678", "0612345678"},
		{"212612345678", "0612345678"},
		{"+212 612-345-678", "0612345678"},
		{"0612345678", "0612345678"},
		{"(06) 12 34 56 78", "0612345678"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhone(tt.in), tt.in)
	}
}

func TestFormatCreatedAt(t *testing.T) {
	assert.Equal(t, "2026-01-02 10:30", FormatCreatedAt("2026-01-02T10:30:00+01:00"))
	assert.Equal(t, "garbage", FormatCreatedAt("garbage"))
}

func TestJoinLineItems(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, Title: "Blue Shirt"},
		{Quantity: 1, Title: "Hat", VariantTitle: "Hat / Red"},
	}
	assert.Equal(t, "2x Blue Shirt, 1x Hat / Red", JoinLineItems(items))
	assert.Equal(t, "", JoinLineItems(nil))
}
