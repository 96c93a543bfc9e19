package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

type SEOService struct {
	c *client.Client
}

// Get fetches site SEO configuration. Served from the response cache for
// its full TTL: this payload changes rarely and is requested on every page.
func (s *SEOService) Get(ctx context.Context) (*SEOConfig, error) {
	var cfg SEOConfig
	if err := s.c.Get(ctx, "/seo", &cfg, nil); err != nil {
		return nil, fallback(err, "failed to load seo configuration")
	}
	return &cfg, nil
}
