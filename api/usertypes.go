package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

type UserTypeService struct {
	c *client.Client
}

func (s *UserTypeService) List(ctx context.Context) ([]UserType, error) {
	var types []UserType
	if err := s.c.Get(ctx, "/user-types", &types, nil); err != nil {
		return nil, fallback(err, "failed to load user types")
	}
	return types, nil
}

func (s *UserTypeService) Get(ctx context.Context, userTypeID string) (*UserType, error) {
	if err := require("userTypeId", userTypeID); err != nil {
		return nil, err
	}
	var ut UserType
	if err := s.c.Get(ctx, "/user-types/"+userTypeID, &ut, nil); err != nil {
		return nil, fallback(err, "failed to load user type")
	}
	return &ut, nil
}
