// Command storefront is a small terminal client for the storefront API,
// mostly useful for poking at a deployment: it logs in, browses the
// catalog and drives the cart/checkout flow through the same synchronizers
// the embedding apps use.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/config"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/storefront"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	store, err := openStore()
	if err != nil {
		return err
	}

	sf, err := storefront.New(cfg, store, log)
	if err != nil {
		return err
	}
	sf.Client.OnUnauthorized(func(intended string) {
		log.Warn().Str("intendedPath", intended).Msg("session expired, please log in again")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if len(args) == 0 {
		return usage()
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return usage()
		}
		result, err := sf.API.Auth.Login(ctx, api.Credentials{Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", result.User.Username, result.User.Email)
		sf.UserType.EnsureSelected(ctx)
		return nil

	case "logout":
		if err := sf.API.Auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "products":
		page, err := sf.API.Products.List(ctx, api.ProductListOptions{})
		if err != nil {
			return err
		}
		for _, p := range page.Products {
			fmt.Printf("%-8s %-30s %10.2f\n", p.ID, p.Name, p.Price)
		}
		return nil

	case "cart":
		if len(args) == 1 {
			return showCart(ctx, sf)
		}
		switch args[1] {
		case "add":
			if len(args) != 4 {
				return usage()
			}
			qty, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}
			product, err := sf.API.Products.Get(ctx, args[2])
			if err != nil {
				return err
			}
			if err := sf.Cart.Refresh(ctx); err != nil {
				return err
			}
			if err := sf.Cart.Add(ctx, *product, qty); err != nil {
				return err
			}
			return showCart(ctx, sf)
		case "remove":
			if len(args) != 3 {
				return usage()
			}
			if err := sf.Cart.Refresh(ctx); err != nil {
				return err
			}
			if err := sf.Cart.Remove(ctx, args[2]); err != nil {
				return err
			}
			return showCart(ctx, sf)
		}
		return usage()

	case "checkout":
		if len(args) != 3 {
			return usage()
		}
		order, err := sf.Orders.Place(ctx, api.CheckoutRequest{AddressID: args[1], PaymentMethod: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed, total %.2f\n", order.ID, order.Total)
		return nil

	case "orders":
		if err := sf.Orders.Refresh(ctx); err != nil {
			return err
		}
		for _, o := range sf.Orders.List() {
			fmt.Printf("%-12s %-10s %10.2f  %s\n", o.ID, o.Status, o.Total, o.CreatedAt.Format(time.RFC3339))
		}
		return nil

	case "whoami":
		me, err := sf.Profile.Fetch(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s type=%s\n", me.Username, me.Email, me.Role, sf.UserType.Value())
		return nil
	}

	return usage()
}

func showCart(ctx context.Context, sf *storefront.Storefront) error {
	if err := sf.Cart.Refresh(ctx); err != nil {
		return err
	}
	for _, it := range sf.Cart.Items() {
		fmt.Printf("%-10s %-30s x%-3d %10.2f\n", it.ID, it.Name, it.Quantity, it.LineTotal)
	}
	fmt.Printf("subtotal: %.2f\n", sf.Cart.Subtotal())
	return nil
}

func openStore() (session.Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return session.NewMemoryStore(), nil
	}
	return session.NewFileStore(filepath.Join(dir, "storefront", "session.json"))
}

func usage() error {
	fmt.Fprintln(os.Stderr, `usage:
  storefront login <email> <password>
  storefront logout
  storefront whoami
  storefront products
  storefront cart
  storefront cart add <productId> <quantity>
  storefront cart remove <itemId>
  storefront checkout <addressId> <paymentMethod>
  storefront orders`)
	return fmt.Errorf("invalid arguments")
}
