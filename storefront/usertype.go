package storefront

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

// The fixed user-type vocabulary. Everything the user, the server or the
// durable store produces is canonicalized onto one of these.
const (
	TypeResidential    = "Residential"
	TypeCommercial     = "Commercial"
	TypeModularKitchen = "Modular Kitchen"
	TypeOthers         = "Others"

	DefaultUserType = TypeResidential
)

// CanonicalUserType maps free-form input onto the fixed vocabulary.
// Unrecognized input falls back to the default rather than propagating.
func CanonicalUserType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, sep := range []string{"+", "-", "_"} {
		s = strings.ReplaceAll(s, sep, " ")
	}
	s = strings.Join(strings.Fields(s), " ")

	switch s {
	case "residential":
		return TypeResidential
	case "commercial":
		return TypeCommercial
	case "modular kitchen", "modularkitchen", "modular":
		return TypeModularKitchen
	case "others", "other":
		return TypeOthers
	default:
		return DefaultUserType
	}
}

// UserType synchronizes the user-type selection. This is the one flow with
// an explicit offline allowance: a selection that cannot reach the server
// is kept locally, marked unsynced, and must never block the caller.
type UserType struct {
	mu   sync.Mutex
	api  *api.API
	sess *session.Session
	log  zerolog.Logger

	value  string
	synced bool
}

func NewUserType(a *api.API, sess *session.Session, log zerolog.Logger) *UserType {
	u := &UserType{
		api:  a,
		sess: sess,
		log:  log.With().Str("component", "usertype").Logger(),
	}
	data := sess.Data()
	if data.UserTypeName != "" {
		u.value = CanonicalUserType(data.UserTypeName)
		u.synced = data.UserTypeConfirmed
	}
	return u
}

// Value returns the current selection, always one of the fixed vocabulary.
func (u *UserType) Value() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.value == "" {
		return DefaultUserType
	}
	return u.value
}

// Synced reports whether the server has acknowledged the current value.
func (u *UserType) Synced() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.synced
}

// Select canonicalizes raw, applies it locally (durable store included) and
// best-effort syncs it to the server. Recoverable failures keep the local
// value and mark it unsynced; auth and validation failures propagate and
// restore the pre-selection state.
func (u *UserType) Select(ctx context.Context, raw string) error {
	value := CanonicalUserType(raw)

	prev := u.sess.Data()
	u.mu.Lock()
	prevValue, prevSynced := u.value, u.synced
	u.value = value
	u.synced = false
	u.mu.Unlock()
	u.sess.SetUserType("", value, false)

	err := u.push(ctx, value)
	if err == nil {
		return nil
	}
	if client.IsUnauthorized(err) || client.IsValidation(err) {
		u.mu.Lock()
		u.value, u.synced = prevValue, prevSynced
		u.mu.Unlock()
		// A 401 already wiped the session; re-writing user-type keys
		// there would resurrect part of the cleared identity.
		if client.IsValidation(err) {
			u.sess.SetUserType(prev.UserTypeID, prev.UserTypeName, prev.UserTypeConfirmed)
		}
		return err
	}
	u.log.Warn().Err(err).Str("userType", value).Msg("user type kept locally, sync deferred")
	return nil
}

// EnsureSelected makes sure some valid selection exists: the in-memory
// value, then the durable store, then the default. Idempotent.
func (u *UserType) EnsureSelected(ctx context.Context) string {
	u.mu.Lock()
	if u.value != "" {
		v := u.value
		u.mu.Unlock()
		return v
	}
	u.mu.Unlock()

	stored := u.sess.Data().UserTypeName
	value := DefaultUserType
	if stored != "" {
		value = CanonicalUserType(stored)
	}

	u.mu.Lock()
	u.value = value
	u.mu.Unlock()
	u.sess.SetUserType(u.sess.Data().UserTypeID, value, false)

	// Fire-and-forget server sync under the same offline allowance.
	if err := u.push(ctx, value); err != nil {
		u.log.Debug().Err(err).Msg("user type default not yet synced")
	}
	return value
}

// Resync re-fetches the profile and adopts the server's user type. Invoked
// when the transport reports a user-type conflict on a privileged session.
func (u *UserType) Resync(ctx context.Context) error {
	me, err := u.api.Auth.Me(ctx)
	if err != nil {
		return err
	}
	value := CanonicalUserType(me.UserTypeName)
	u.mu.Lock()
	u.value = value
	u.synced = true
	u.mu.Unlock()
	u.sess.SetUserType(me.UserTypeID, value, true)
	return nil
}

// push resolves the canonical name to a server-side user-type id and
// persists the selection on the profile.
func (u *UserType) push(ctx context.Context, value string) error {
	if u.sess.Token() == "" {
		return &client.NetworkError{Err: errNoSession}
	}
	types, err := u.api.UserTypes.List(ctx)
	if err != nil {
		return err
	}
	var id string
	for _, t := range types {
		if CanonicalUserType(t.Name) == value {
			id = t.ID
			break
		}
	}
	if id == "" {
		return &client.ValidationError{Field: "userType", Message: "server does not offer user type " + value}
	}

	_, err = u.api.Auth.UpdateProfile(ctx, api.User{UserTypeID: id, UserTypeName: value})
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.synced = true
	u.mu.Unlock()
	u.sess.SetUserType(id, value, true)
	return nil
}

var errNoSession = &noSessionError{}

type noSessionError struct{}

func (*noSessionError) Error() string { return "no authenticated session" }
