package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

type CategoryService struct {
	c *client.Client
}

func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := s.c.Get(ctx, "/categories", &cats, nil); err != nil {
		return nil, fallback(err, "failed to load categories")
	}
	return cats, nil
}

func (s *CategoryService) Subcategories(ctx context.Context, categoryID string) ([]Category, error) {
	if err := require("categoryId", categoryID); err != nil {
		return nil, err
	}
	var cats []Category
	if err := s.c.Get(ctx, "/categories/"+categoryID+"/subcategories", &cats, nil); err != nil {
		return nil, fallback(err, "failed to load subcategories")
	}
	return cats, nil
}
