package api

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

type CartService struct {
	c *client.Client
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Get always hits the network: the cart synchronizer owns cart freshness
// and a stale cached cart would fight its reconciliation.
func (s *CartService) Get(ctx context.Context) (*Cart, error) {
	var cart Cart
	opts := &client.RequestOptions{NoCache: true}
	if err := s.c.Get(ctx, "/cart", &cart, opts); err != nil {
		return nil, fallback(err, "failed to load cart")
	}
	return &cart, nil
}

func (s *CartService) AddItem(ctx context.Context, req AddItemRequest) (*Cart, error) {
	if err := require("productId", req.ProductID); err != nil {
		return nil, err
	}
	if err := requirePositive("quantity", req.Quantity); err != nil {
		return nil, err
	}
	var cart Cart
	if err := s.c.Post(ctx, "/cart", req, &cart, nil); err != nil {
		return nil, fallback(err, "failed to add item to cart")
	}
	return &cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, itemID string, quantity int) (*Cart, error) {
	if err := require("itemId", itemID); err != nil {
		return nil, err
	}
	if err := requirePositive("quantity", quantity); err != nil {
		return nil, err
	}
	body := map[string]int{"quantity": quantity}
	var cart Cart
	if err := s.c.Put(ctx, "/cart/"+itemID, body, &cart, nil); err != nil {
		return nil, fallback(err, "failed to update cart item")
	}
	return &cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID string) (*Cart, error) {
	if err := require("itemId", itemID); err != nil {
		return nil, err
	}
	var cart Cart
	if err := s.c.Do(ctx, http.MethodDelete, "/cart/"+itemID, nil, &cart, nil); err != nil {
		return nil, fallback(err, "failed to remove cart item")
	}
	return &cart, nil
}
