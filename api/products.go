package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

const defaultProductLimit = 12

type ProductService struct {
	c *client.Client
}

type ProductListOptions struct {
	Page       int
	Limit      int
	CategoryID string
	Search     string
	Sort       string
}

func (s *ProductService) List(ctx context.Context, opts ProductListOptions) (*ProductPage, error) {
	q := pageQuery(opts.Page, opts.Limit, defaultProductLimit)
	if opts.CategoryID != "" {
		q.Set("category", opts.CategoryID)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}

	var page ProductPage
	err := s.c.Get(ctx, "/products", &page, &client.RequestOptions{Query: q})
	if err != nil {
		return nil, fallback(err, "failed to load products")
	}
	return &page, nil
}

func (s *ProductService) Get(ctx context.Context, productID string) (*Product, error) {
	if err := require("productId", productID); err != nil {
		return nil, err
	}
	var p Product
	if err := s.c.Get(ctx, "/products/"+productID, &p, nil); err != nil {
		return nil, fallback(err, "failed to load product")
	}
	return &p, nil
}

// Rate submits a rating. Opted into the rate-limit policy: rating bursts
// are the one place the backend throttles aggressively.
func (s *ProductService) Rate(ctx context.Context, productID string, r Rating) error {
	if err := require("productId", productID); err != nil {
		return err
	}
	if r.Stars < 1 || r.Stars > 5 {
		return &client.ValidationError{Field: "stars", Message: "stars must be between 1 and 5"}
	}
	opts := &client.RequestOptions{RetryRateLimited: true}
	err := s.c.Post(ctx, "/products/"+productID+"/rate", r, nil, opts)
	return fallback(err, "failed to submit rating")
}

func (s *ProductService) Ratings(ctx context.Context, productID string) ([]ProductRating, error) {
	if err := require("productId", productID); err != nil {
		return nil, err
	}
	var ratings []ProductRating
	if err := s.c.Get(ctx, "/products/"+productID+"/ratings", &ratings, nil); err != nil {
		return nil, fallback(err, "failed to load ratings")
	}
	return ratings, nil
}
