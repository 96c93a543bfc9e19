package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

const defaultOrderLimit = 10

type OrderService struct {
	c *client.Client
}

func (s *OrderService) List(ctx context.Context, page, limit int) ([]Order, error) {
	q := pageQuery(page, limit, defaultOrderLimit)
	var orders []Order
	opts := &client.RequestOptions{Query: q, NoCache: true}
	if err := s.c.Get(ctx, "/orders", &orders, opts); err != nil {
		return nil, fallback(err, "failed to load orders")
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*Order, error) {
	if err := require("orderId", orderID); err != nil {
		return nil, err
	}
	var o Order
	if err := s.c.Get(ctx, "/orders/"+orderID, &o, &client.RequestOptions{NoCache: true}); err != nil {
		return nil, fallback(err, "failed to load order")
	}
	return &o, nil
}

// Create places an order from the server-side cart. Opted into the
// rate-limit policy: checkout must survive a briefly throttled backend.
func (s *OrderService) Create(ctx context.Context, req CheckoutRequest) (*Order, error) {
	if err := require("addressId", req.AddressID); err != nil {
		return nil, err
	}
	if err := require("paymentMethod", req.PaymentMethod); err != nil {
		return nil, err
	}
	var o Order
	opts := &client.RequestOptions{RetryRateLimited: true}
	if err := s.c.Post(ctx, "/orders", req, &o, opts); err != nil {
		return nil, fallback(err, "failed to place order")
	}
	return &o, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID string) (*Order, error) {
	if err := require("orderId", orderID); err != nil {
		return nil, err
	}
	var o Order
	if err := s.c.Post(ctx, "/orders/"+orderID+"/cancel", nil, &o, nil); err != nil {
		return nil, fallback(err, "failed to cancel order")
	}
	return &o, nil
}
