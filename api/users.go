package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

const defaultUserLimit = 20

type UserService struct {
	c *client.Client
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]User, error) {
	q := pageQuery(page, limit, defaultUserLimit)
	var users []User
	if err := s.c.Get(ctx, "/users", &users, &client.RequestOptions{Query: q}); err != nil {
		return nil, fallback(err, "failed to load users")
	}
	return users, nil
}

// ListByRole lists users for a role, for privileged views.
func (s *UserService) ListByRole(ctx context.Context, role string) ([]User, error) {
	if err := require("role", role); err != nil {
		return nil, err
	}
	q := map[string][]string{"role": {role}}
	var users []User
	if err := s.c.Get(ctx, "/roles/users", &users, &client.RequestOptions{Query: q}); err != nil {
		return nil, fallback(err, "failed to load users for role")
	}
	return users, nil
}

// AdminList is the moderation view, including unapproved accounts. Never
// cached: approval state must be current.
func (s *UserService) AdminList(ctx context.Context, page, limit int) ([]User, error) {
	q := pageQuery(page, limit, defaultUserLimit)
	var users []User
	opts := &client.RequestOptions{Query: q, NoCache: true}
	if err := s.c.Get(ctx, "/admin/users", &users, opts); err != nil {
		return nil, fallback(err, "failed to load accounts")
	}
	return users, nil
}
