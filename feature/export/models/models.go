package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ShippingAddress is the optional shipping block of an order event.
type ShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
}

// LineItem is one ordered item on an order.
type LineItem struct {
	Quantity     int    `json:"quantity"`
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
}

// PriceSet mirrors the nested presentment price payload.
type PriceSet struct {
	ShopMoney struct {
		Amount string `json:"amount"`
	} `json:"shop_money"`
}

// OrderEvent is a snapshot of an order at webhook notification time.
//
// Name is the store-visible display reference (the ledger's dedup key);
// ID is the opaque admin API id used for upstream mutation calls.
type OrderEvent struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	CreatedAt         string          `json:"created_at"`
	Tags              string          `json:"tags"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	FinancialStatus   string          `json:"financial_status"`
	CancelledAt       string          `json:"cancelled_at"`
	ClosedAt          string          `json:"closed_at"`
	TotalOutstanding  string          `json:"total_outstanding"`
	PresentmentTotal  PriceSet        `json:"presentment_total_price_set"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	LineItems         []LineItem      `json:"line_items"`
	Note              string          `json:"note"`

	// tagSet holds the lowercased trimmed tags, built once at parse time.
	tagSet map[string]struct{}
}

// ParseOrderEvent decodes and validates a webhook body.
func ParseOrderEvent(body []byte) (*OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("malformed order event: %w", err)
	}
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return nil, errors.New("order event has no name")
	}

	event.tagSet = make(map[string]struct{})
	for _, t := range strings.Split(event.Tags, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			event.tagSet[t] = struct{}{}
		}
	}
	return &event, nil
}

// HasTag reports whether the (lowercased) tag is present on the order.
func (e *OrderEvent) HasTag(tag string) bool {
	_, ok := e.tagSet[strings.ToLower(tag)]
	return ok
}

// Cancelled reports whether the order carries a cancellation timestamp.
func (e *OrderEvent) Cancelled() bool {
	return strings.TrimSpace(e.CancelledAt) != ""
}

// Closed reports whether the order carries a closed timestamp.
func (e *OrderEvent) Closed() bool {
	return strings.TrimSpace(e.ClosedAt) != ""
}

// RawPrice picks the outstanding total, falling back to the presentment
// shop-money amount.
func (e *OrderEvent) RawPrice() string {
	if e.TotalOutstanding != "" {
		return e.TotalOutstanding
	}
	return e.PresentmentTotal.ShopMoney.Amount
}

// FormatPrice truncates a decimal price string to its integer part.
// Unparseable input passes through unchanged.
func FormatPrice(raw string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	return strconv.Itoa(int(f))
}

// FormatPhone normalizes Moroccan phone numbers to local 0-prefixed form.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	switch {
	case strings.HasPrefix(cleaned, "+212"):
		return "0" + cleaned[4:]
	case strings.HasPrefix(cleaned, "212"):
		return "0" + cleaned[3:]
	default:
		return cleaned
	}
}

// FormatCreatedAt renders the order timestamp as "YYYY-MM-DD HH:MM".
// Unparseable input passes through unchanged.
func FormatCreatedAt(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02 15:04")
}

// JoinLineItems renders line items as "2x Blue Shirt, 1x Hat". The variant
// title is preferred over the product title when present.
func JoinLineItems(items []LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		title := item.Title
		if item.VariantTitle != "" {
			title = item.VariantTitle
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, title))
	}
	return strings.Join(parts, ", ")
}
