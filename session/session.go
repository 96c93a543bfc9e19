package session

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Durable store keys. Kept in sync with what the web client persists so a
// session written by either is readable by both.
const (
	keyToken             = "token"
	keyUserID            = "userId"
	keyEmail             = "email"
	keyUsername          = "username"
	keyUserType          = "userType"
	keyUserTypeConfirmed = "userTypeConfirmed"
	keyUserRole          = "userRole"
	keyUserStatus        = "userStatus"
	keyUserTypeID        = "userTypeId"
	keyUserTypeName      = "userTypeName"
	keyRecentSearches    = "recentSearches"
	keyIntendedPath      = "intendedPath"
)

// State is the authentication lifecycle:
// Anonymous -> Authenticating -> Authenticated -> Anonymous.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Data holds the client's record of the current identity and its cached
// attributes.
type Data struct {
	Token             string
	UserID            string
	Email             string
	Username          string
	Role              string
	Status            string
	UserType          string
	UserTypeConfirmed bool
	UserTypeID        string
	UserTypeName      string
}

// Session mirrors the durable Store in memory for synchronous reads.
// Auth-state changes (login, logout) notify registered listeners; plain
// field updates do not. There is no coalescing of concurrent logins: last
// write wins.
type Session struct {
	mu       sync.RWMutex
	store    Store
	state    State
	data     Data
	log      zerolog.Logger
	onChange []func()
}

// New loads any persisted session from store. A persisted token restores
// the Authenticated state without a network call; the server remains the
// source of truth on first contact.
func New(store Store) *Session {
	s := &Session{store: store, log: zerolog.Nop()}
	s.data = Data{
		Token:             s.read(keyToken),
		UserID:            s.read(keyUserID),
		Email:             s.read(keyEmail),
		Username:          s.read(keyUsername),
		Role:              s.read(keyUserRole),
		Status:            s.read(keyUserStatus),
		UserType:          s.read(keyUserType),
		UserTypeConfirmed: s.read(keyUserTypeConfirmed) == "true",
		UserTypeID:        s.read(keyUserTypeID),
		UserTypeName:      s.read(keyUserTypeName),
	}
	if s.data.Token != "" {
		s.state = Authenticated
	}
	return s
}

func (s *Session) read(key string) string {
	v, _ := s.store.Get(key)
	return v
}

// SetLogger installs the logger used to report persistence failures. Call
// before the session is shared; writes to the field are not synchronized.
func (s *Session) SetLogger(log zerolog.Logger) {
	s.log = log
}

// persist writes one key through to the store. Failures leave the
// in-memory session intact but the value will not survive a restart.
func (s *Session) persist(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session persist failed")
	}
}

// OnChange registers fn to run after every auth-state change. The transport
// uses this to drop its response cache.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.onChange))
	copy(listeners, s.onChange)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.UserID
}

func (s *Session) Data() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// BeginAuth marks the session as authenticating. Transient: callers follow
// up with SetAuthenticated or Clear.
func (s *Session) BeginAuth() {
	s.mu.Lock()
	s.state = Authenticating
	s.mu.Unlock()
}

// SetAuthenticated installs a freshly authenticated identity, persists it,
// and notifies listeners.
func (s *Session) SetAuthenticated(d Data) {
	s.mu.Lock()
	s.state = Authenticated
	s.data = d
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// UpdateProfile overwrites profile attributes without touching the token or
// auth state. Listeners are not notified: the identity is unchanged.
func (s *Session) UpdateProfile(d Data) {
	s.mu.Lock()
	token := s.data.Token
	s.data = d
	s.data.Token = token
	s.persistLocked()
	s.mu.Unlock()
}

func (s *Session) persistLocked() {
	s.persist(keyToken, s.data.Token)
	s.persist(keyUserID, s.data.UserID)
	s.persist(keyEmail, s.data.Email)
	s.persist(keyUsername, s.data.Username)
	s.persist(keyUserRole, s.data.Role)
	s.persist(keyUserStatus, s.data.Status)
	s.persist(keyUserType, s.data.UserType)
	confirmed := "false"
	if s.data.UserTypeConfirmed {
		confirmed = "true"
	}
	s.persist(keyUserTypeConfirmed, confirmed)
	s.persist(keyUserTypeID, s.data.UserTypeID)
	s.persist(keyUserTypeName, s.data.UserTypeName)
}

// Clear wipes the identity from memory and durable storage and notifies
// listeners. Recent searches and the intended path survive: they are not
// identity-bound.
func (s *Session) Clear() {
	s.mu.Lock()
	s.state = Anonymous
	s.data = Data{}
	for _, key := range []string{
		keyToken, keyUserID, keyEmail, keyUsername, keyUserRole,
		keyUserStatus, keyUserType, keyUserTypeConfirmed, keyUserTypeID,
		keyUserTypeName,
	} {
		_ = s.store.Delete(key)
	}
	s.mu.Unlock()
	s.notify()
}

// SetUserType records the user-type selection. confirmed reports whether the
// server has acknowledged it (false while offline/unsynced).
func (s *Session) SetUserType(id, name string, confirmed bool) {
	s.mu.Lock()
	s.data.UserTypeID = id
	s.data.UserTypeName = name
	s.data.UserType = name
	s.data.UserTypeConfirmed = confirmed
	s.persist(keyUserTypeID, id)
	s.persist(keyUserTypeName, name)
	s.persist(keyUserType, name)
	v := "false"
	if confirmed {
		v = "true"
	}
	s.persist(keyUserTypeConfirmed, v)
	s.mu.Unlock()
}

// SetIntendedPath remembers where the user was heading when authentication
// failed, for post-login resumption.
func (s *Session) SetIntendedPath(path string) {
	s.persist(keyIntendedPath, path)
}

// IntendedPath returns the stored destination and removes it.
func (s *Session) IntendedPath() string {
	v, ok := s.store.Get(keyIntendedPath)
	if !ok {
		return ""
	}
	_ = s.store.Delete(keyIntendedPath)
	return v
}

// AddRecentSearch prepends term to the persisted recent-search list,
// deduplicated, capped at ten entries.
func (s *Session) AddRecentSearch(term string) {
	if term == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	searches := s.recentSearchesLocked()
	out := make([]string, 0, len(searches)+1)
	out = append(out, term)
	for _, t := range searches {
		if t != term {
			out = append(out, t)
		}
	}
	if len(out) > 10 {
		out = out[:10]
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	s.persist(keyRecentSearches, string(data))
}

func (s *Session) RecentSearches() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentSearchesLocked()
}

func (s *Session) recentSearchesLocked() []string {
	raw, ok := s.store.Get(keyRecentSearches)
	if !ok || raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
