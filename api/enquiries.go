package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

const defaultEnquiryLimit = 20

type EnquiryService struct {
	c *client.Client
}

// Create submits a product or general enquiry. Opted into the rate-limit
// policy since the endpoint is throttled against form spam.
func (s *EnquiryService) Create(ctx context.Context, e Enquiry) (*Enquiry, error) {
	if err := require("name", e.Name); err != nil {
		return nil, err
	}
	if err := requireEmail(e.Email); err != nil {
		return nil, err
	}
	if err := require("message", e.Message); err != nil {
		return nil, err
	}
	var created Enquiry
	opts := &client.RequestOptions{RetryRateLimited: true}
	if err := s.c.Post(ctx, "/enquiries", e, &created, opts); err != nil {
		return nil, fallback(err, "failed to submit enquiry")
	}
	return &created, nil
}

func (s *EnquiryService) List(ctx context.Context, page, limit int) ([]Enquiry, error) {
	q := pageQuery(page, limit, defaultEnquiryLimit)
	var enquiries []Enquiry
	if err := s.c.Get(ctx, "/enquiries", &enquiries, &client.RequestOptions{Query: q}); err != nil {
		return nil, fallback(err, "failed to load enquiries")
	}
	return enquiries, nil
}
