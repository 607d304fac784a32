package mocks

import (
	"context"

	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of shopify.Client
type Client struct {
	mock.Mock
}

func (m *Client) FetchOrderByReference(ctx context.Context, store *stores.Store, reference string) (*shopify.Order, error) {
	args := m.Called(ctx, store, reference)
	if order, ok := args.Get(0).(*shopify.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) UpdateOrderTags(ctx context.Context, store *stores.Store, orderID int64, tags []string) error {
	args := m.Called(ctx, store, orderID, tags)
	return args.Error(0)
}
