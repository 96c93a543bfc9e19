package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/internal/apitest"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

func newFacade(t *testing.T) (*apitest.Server, *api.API, *session.Session) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore())
	c, err := client.New(client.Config{
		BaseURL: srv.BaseURL(),
		Sleep:   func(context.Context, time.Duration) error { return nil },
	}, sess, zerolog.Nop())
	require.NoError(t, err)

	return srv, api.New(c, sess), sess
}

func TestLoginValidationNeverHitsNetwork(t *testing.T) {
	srv, a, _ := newFacade(t)

	cases := []api.Credentials{
		{Email: "", Password: "secret"},
		{Email: "not-an-email", Password: "secret"},
		{Email: apitest.SeedEmail, Password: ""},
	}
	for _, creds := range cases {
		_, err := a.Auth.Login(context.Background(), creds)
		assert.True(t, client.IsValidation(err), "creds %+v: %v", creds, err)
	}
	assert.Equal(t, 0, srv.Requests(), "validation failures must not reach the network")
}

func TestLoginSeedsSession(t *testing.T) {
	_, a, sess := newFacade(t)

	result, err := a.Auth.Login(context.Background(), api.Credentials{
		Email:    apitest.SeedEmail,
		Password: apitest.SeedPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	assert.Equal(t, session.Authenticated, sess.State())
	assert.Equal(t, result.Token, sess.Token())
	assert.Equal(t, "u-1", sess.UserID())
	assert.Equal(t, "Residential", sess.Data().UserTypeName)
}

func TestLoginRejectedLeavesSessionAnonymous(t *testing.T) {
	_, a, sess := newFacade(t)

	_, err := a.Auth.Login(context.Background(), api.Credentials{
		Email:    apitest.SeedEmail,
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, session.Anonymous, sess.State())
	assert.Empty(t, sess.Token())
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	srv, a, sess := newFacade(t)

	_, err := a.Auth.Login(context.Background(), api.Credentials{
		Email:    apitest.SeedEmail,
		Password: apitest.SeedPassword,
	})
	require.NoError(t, err)

	srv.FailNext(503, 3) // outlasts the standard retry budget
	require.NoError(t, a.Auth.Logout(context.Background()))
	assert.Equal(t, session.Anonymous, sess.State())
	assert.Empty(t, sess.Token())
}

func TestLoginClearsResponseCache(t *testing.T) {
	srv, a, _ := newFacade(t)

	// Prime the cache with an anonymous catalog read.
	_, err := a.Products.List(context.Background(), api.ProductListOptions{})
	require.NoError(t, err)
	before := srv.Requests()

	_, err = a.Products.List(context.Background(), api.ProductListOptions{})
	require.NoError(t, err)
	require.Equal(t, before, srv.Requests(), "second read should be cached")

	_, err = a.Auth.Login(context.Background(), api.Credentials{
		Email:    apitest.SeedEmail,
		Password: apitest.SeedPassword,
	})
	require.NoError(t, err)

	_, err = a.Products.List(context.Background(), api.ProductListOptions{})
	require.NoError(t, err)
	assert.Greater(t, srv.Requests(), before+1, "login must invalidate cached reads")
}

func TestUpdateProfileRefreshesSessionMirror(t *testing.T) {
	_, a, sess := newFacade(t)

	_, err := a.Auth.Login(context.Background(), api.Credentials{
		Email:    apitest.SeedEmail,
		Password: apitest.SeedPassword,
	})
	require.NoError(t, err)

	updated, err := a.Auth.UpdateProfile(context.Background(), api.User{Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "renamed", sess.Data().Username)
	assert.NotEmpty(t, sess.Token(), "token must survive profile updates")
}

func TestProductNotFoundClassified(t *testing.T) {
	_, a, _ := newFacade(t)

	_, err := a.Products.Get(context.Background(), "nope")
	assert.True(t, client.IsNotFound(err))
}
