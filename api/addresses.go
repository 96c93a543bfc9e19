package api

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

type AddressService struct {
	c *client.Client
}

func (s *AddressService) List(ctx context.Context) ([]Address, error) {
	var addrs []Address
	if err := s.c.Get(ctx, "/shipping-address", &addrs, &client.RequestOptions{NoCache: true}); err != nil {
		return nil, fallback(err, "failed to load shipping addresses")
	}
	return addrs, nil
}

func (s *AddressService) Create(ctx context.Context, a Address) (*Address, error) {
	if err := validateAddress(a); err != nil {
		return nil, err
	}
	var created Address
	if err := s.c.Post(ctx, "/shipping-address", a, &created, nil); err != nil {
		return nil, fallback(err, "failed to save shipping address")
	}
	return &created, nil
}

func (s *AddressService) Update(ctx context.Context, a Address) (*Address, error) {
	if err := require("addressId", a.ID); err != nil {
		return nil, err
	}
	if err := validateAddress(a); err != nil {
		return nil, err
	}
	var updated Address
	if err := s.c.Put(ctx, "/shipping-address", a, &updated, nil); err != nil {
		return nil, fallback(err, "failed to update shipping address")
	}
	return &updated, nil
}

func (s *AddressService) Delete(ctx context.Context, addressID string) error {
	if err := require("addressId", addressID); err != nil {
		return err
	}
	q := map[string][]string{"addressId": {addressID}}
	err := s.c.Do(ctx, http.MethodDelete, "/shipping-address", nil, nil, &client.RequestOptions{Query: q})
	return fallback(err, "failed to delete shipping address")
}

func validateAddress(a Address) error {
	if err := require("line1", a.Line1); err != nil {
		return err
	}
	if err := require("city", a.City); err != nil {
		return err
	}
	if err := require("postalCode", a.PostalCode); err != nil {
		return err
	}
	return require("country", a.Country)
}
