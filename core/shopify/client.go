package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chafiq1992/shopify-to-sheets/core/stores"
)

const apiVersion = "2023-04"

// Order is the subset of the admin API order payload the service uses.
type Order struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Tags              string `json:"tags"`
	FulfillmentStatus string `json:"fulfillment_status"`
	FinancialStatus   string `json:"financial_status"`
	CancelledAt       string `json:"cancelled_at"`
	ClosedAt          string `json:"closed_at"`
}

// TagList splits the comma-separated tag string into trimmed tags.
func (o *Order) TagList() []string {
	var tags []string
	for _, t := range strings.Split(o.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Client defines the upstream order-source operations consumed by the core.
type Client interface {
	// FetchOrderByReference resolves an order by its display name (e.g. "#1001").
	// Returns (nil, nil) when no order matches.
	FetchOrderByReference(ctx context.Context, store *stores.Store, reference string) (*Order, error)
	// UpdateOrderTags replaces the order's tag set. The id is the opaque
	// admin API id, not the display reference.
	UpdateOrderTags(ctx context.Context, store *stores.Store, orderID int64, tags []string) error
}

// Config holds configuration for the Shopify admin client.
type Config struct {
	// TimeoutSeconds bounds every individual admin API call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// NewClient creates an admin API client with strict transport timeouts.
func NewClient(cfg Config) Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &adminClient{
		http:    &http.Client{Transport: transport},
		timeout: timeoutDuration,
	}
}

type adminClient struct {
	http    *http.Client
	timeout time.Duration
}

func (c *adminClient) FetchOrderByReference(ctx context.Context, store *stores.Store, reference string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("https://%s/admin/api/%s/orders.json?status=any&name=%s",
		store.ShopDomain, apiVersion, url.QueryEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(store.APIKey, store.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", reference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch order %s: status %d: %s", reference, resp.StatusCode, body)
	}

	var payload struct {
		Orders []Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", reference, err)
	}
	if len(payload.Orders) == 0 {
		return nil, nil
	}
	return &payload.Orders[0], nil
}

func (c *adminClient) UpdateOrderTags(ctx context.Context, store *stores.Store, orderID int64, tags []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("https://%s/admin/api/%s/orders/%d.json", store.ShopDomain, apiVersion, orderID)

	payload := map[string]map[string]string{
		"order": {"tags": strings.Join(tags, ", ")},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(store.APIKey, store.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update tags for order %d: %w", orderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("update tags for order %d: status %d: %s", orderID, resp.StatusCode, respBody)
	}
	return nil
}
