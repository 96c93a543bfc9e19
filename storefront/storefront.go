package storefront

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/config"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

// Storefront wires the whole client together: transport, session, typed
// facade and the synchronizers on top. One instance per identity; nothing
// is package-global, so tests construct isolated instances freely.
type Storefront struct {
	Session  *session.Session
	Client   *client.Client
	API      *api.API
	Cart     *Cart
	UserType *UserType
	Orders   *Orders
	Profile  *Profile
}

func New(cfg config.Config, store session.Store, log zerolog.Logger) (*Storefront, error) {
	sess := session.New(store)
	sess.SetLogger(log)

	c, err := client.New(client.Config{
		BaseURL:       cfg.APIURL,
		Timeout:       cfg.Timeout,
		CacheTTL:      cfg.CacheTTL,
		EnableBreaker: cfg.EnableBreaker,
		EnableTracing: cfg.EnableTracing,
	}, sess, log)
	if err != nil {
		return nil, err
	}

	a := api.New(c, sess)

	sf := &Storefront{
		Session:  sess,
		Client:   c,
		API:      a,
		Cart:     NewCart(a, sess, log),
		UserType: NewUserType(a, sess, log),
		Orders:   NewOrders(a, log),
		Profile:  NewProfile(a, sess, log),
	}

	// A privileged session reconciles its user type from the profile when
	// the server flags a mismatch; everyone else re-runs selection.
	c.OnUserTypeConflict(func(msg string) {
		if sess.Data().Role == "admin" {
			go func() {
				if err := sf.UserType.Resync(context.Background()); err != nil {
					log.Warn().Err(err).Msg("user type resync failed")
				}
			}()
			return
		}
		log.Warn().Str("message", msg).Msg("server rejected user type, reselection required")
	})

	return sf, nil
}
