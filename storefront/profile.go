package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

// DefaultProfileInterval is the minimum spacing between profile reads or
// writes hitting the network. Inside the window, reads serve the in-memory
// copy and writes are merged and deferred.
const DefaultProfileInterval = 30 * time.Second

// ThrottledWrite is the deferred-success signal: the edit was accepted and
// merged locally but the network write is postponed until NextAllowed.
type ThrottledWrite struct {
	NextAllowed time.Time
}

func (e *ThrottledWrite) Error() string {
	return fmt.Sprintf("profile write deferred until %s", e.NextAllowed.Format(time.RFC3339))
}

// Profile synchronizes the user profile under a single min-interval
// throttle (the facade's profile calls bypass the response cache, so the
// throttle is the only freshness mechanism).
type Profile struct {
	mu   sync.Mutex
	api  *api.API
	sess *session.Session
	log  zerolog.Logger
	now  func() time.Time

	interval  time.Duration
	lastFetch time.Time
	lastWrite time.Time
	user      api.User
	pending   *api.User
}

func NewProfile(a *api.API, sess *session.Session, log zerolog.Logger) *Profile {
	p := &Profile{
		api:      a,
		sess:     sess,
		log:      log.With().Str("component", "profile").Logger(),
		now:      time.Now,
		interval: DefaultProfileInterval,
	}
	// Seed from the session so a fetch right after login is free.
	data := sess.Data()
	if data.UserID != "" {
		p.user = api.User{
			ID:           data.UserID,
			Email:        data.Email,
			Username:     data.Username,
			Role:         data.Role,
			Status:       data.Status,
			UserTypeID:   data.UserTypeID,
			UserTypeName: data.UserTypeName,
		}
		p.lastFetch = p.now()
	}
	return p
}

// Fetch returns the profile, from memory while inside the throttle window,
// otherwise from the server.
func (p *Profile) Fetch(ctx context.Context) (*api.User, error) {
	p.mu.Lock()
	if p.user.ID != "" && p.now().Sub(p.lastFetch) < p.interval {
		u := p.user
		p.mu.Unlock()
		return &u, nil
	}
	p.mu.Unlock()

	me, err := p.api.Auth.Me(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.user = *me
	p.lastFetch = p.now()
	u := p.user
	p.mu.Unlock()
	return &u, nil
}

// Update applies edits locally and persists them, unless a write happened
// inside the throttle window, in which case the edits are merged into a
// pending write and a ThrottledWrite is returned.
func (p *Profile) Update(ctx context.Context, edits api.User) (*api.User, error) {
	p.mu.Lock()
	if since := p.now().Sub(p.lastWrite); since < p.interval {
		p.mergePendingLocked(edits)
		next := p.lastWrite.Add(p.interval)
		p.mu.Unlock()
		p.log.Debug().Time("nextAllowed", next).Msg("profile write throttled")
		return nil, &ThrottledWrite{NextAllowed: next}
	}
	if p.pending != nil {
		edits = mergeUser(*p.pending, edits)
		p.pending = nil
	}
	p.mu.Unlock()

	updated, err := p.api.Auth.UpdateProfile(ctx, edits)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.user = *updated
	p.lastWrite = p.now()
	p.lastFetch = p.now()
	p.mu.Unlock()
	return updated, nil
}

// Flush sends any deferred edits once the window has elapsed. A no-op when
// nothing is pending or the window is still open.
func (p *Profile) Flush(ctx context.Context) (*api.User, error) {
	p.mu.Lock()
	if p.pending == nil || p.now().Sub(p.lastWrite) < p.interval {
		p.mu.Unlock()
		return nil, nil
	}
	edits := *p.pending
	p.pending = nil
	p.mu.Unlock()

	return p.Update(ctx, edits)
}

func (p *Profile) mergePendingLocked(edits api.User) api.User {
	if p.pending == nil {
		p.pending = &edits
	} else {
		merged := mergeUser(*p.pending, edits)
		p.pending = &merged
	}
	return *p.pending
}

// mergeUser overlays later non-zero fields onto base.
func mergeUser(base, over api.User) api.User {
	out := base
	if over.Email != "" {
		out.Email = over.Email
	}
	if over.Username != "" {
		out.Username = over.Username
	}
	if over.UserTypeID != "" {
		out.UserTypeID = over.UserTypeID
	}
	if over.UserTypeName != "" {
		out.UserTypeName = over.UserTypeName
	}
	return out
}
