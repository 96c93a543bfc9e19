package storefront

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
)

func TestFetchServedLocallyInsideThrottleWindow(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	p := NewProfile(f.api, f.sess, zerolog.Nop())
	before := f.srv.Requests()

	// Seeded from the session at construction, so a fetch right after
	// login is free.
	me, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", me.ID)
	assert.Equal(t, before, f.srv.Requests(), "fetch inside window must not call the API")
}

func TestFetchGoesToServerAfterWindow(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	p := NewProfile(f.api, f.sess, zerolog.Nop())
	now := time.Now()
	p.now = func() time.Time { return now }

	before := f.srv.Requests()
	now = now.Add(DefaultProfileInterval + time.Second)

	_, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+1, f.srv.Requests())
}

func TestUpdateInsideWindowIsDeferredAndMerged(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	p := NewProfile(f.api, f.sess, zerolog.Nop())
	now := time.Now()
	p.now = func() time.Time { return now }

	_, err := p.Update(context.Background(), api.User{Username: "first"})
	require.NoError(t, err)

	// Second write inside the window: deferred, not failed.
	_, err = p.Update(context.Background(), api.User{Username: "second"})
	var throttled *ThrottledWrite
	require.True(t, errors.As(err, &throttled), "expected ThrottledWrite, got %v", err)
	assert.Equal(t, now.Add(DefaultProfileInterval), throttled.NextAllowed)

	// A third edit merges over the pending one.
	_, err = p.Update(context.Background(), api.User{Email: "merged@example.com"})
	require.True(t, errors.As(err, &throttled))

	// Past the window, Flush sends the merged pending write.
	now = now.Add(DefaultProfileInterval + time.Second)
	updated, err := p.Flush(context.Background())
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "second", updated.Username)
	assert.Equal(t, "merged@example.com", updated.Email)
}

func TestFlushWithoutPendingIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	p := NewProfile(f.api, f.sess, zerolog.Nop())
	before := f.srv.Requests()

	updated, err := p.Flush(context.Background())
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, before, f.srv.Requests())
}
