// Package api is the typed facade over the storefront REST API: one service
// per resource area, one method per operation. Methods validate inputs
// before any network call, normalize pagination, and attach resource
// fallback messages to otherwise bare server errors.
package api

import (
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

type API struct {
	Auth       *AuthService
	Products   *ProductService
	Categories *CategoryService
	Cart       *CartService
	Orders     *OrderService
	Addresses  *AddressService
	UserTypes  *UserTypeService
	Users      *UserService
	Enquiries  *EnquiryService
	SEO        *SEOService
}

func New(c *client.Client, sess *session.Session) *API {
	return &API{
		Auth:       &AuthService{c: c, sess: sess},
		Products:   &ProductService{c: c},
		Categories: &CategoryService{c: c},
		Cart:       &CartService{c: c},
		Orders:     &OrderService{c: c},
		Addresses:  &AddressService{c: c},
		UserTypes:  &UserTypeService{c: c},
		Users:      &UserService{c: c},
		Enquiries:  &EnquiryService{c: c},
		SEO:        &SEOService{c: c},
	}
}

// pageQuery normalizes pagination: page defaults to 1, limit to the
// resource's default when unset or out of range.
func pageQuery(page, limit, defaultLimit int) url.Values {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}
