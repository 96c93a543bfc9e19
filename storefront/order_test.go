package storefront

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

func checkoutReq() api.CheckoutRequest {
	return api.CheckoutRequest{AddressID: "addr-1", PaymentMethod: "card"}
}

func TestPlaceOrderReconciles(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	cart := NewCart(f.api, f.sess, zerolog.Nop())
	require.NoError(t, cart.Refresh(context.Background()))
	require.NoError(t, cart.Add(context.Background(), api.Product{ID: "p-1", Price: 250}, 2))

	orders := NewOrders(f.api, zerolog.Nop())
	placed, err := orders.Place(context.Background(), checkoutReq())
	require.NoError(t, err)

	assert.InDelta(t, 500.0, placed.Total, 1e-9)
	assert.Equal(t, string(api.OrderConfirmed), placed.Status)

	list := orders.List()
	require.Len(t, list, 1)
	assert.Equal(t, placed.ID, list[0].ID)
	assert.False(t, strings.HasPrefix(list[0].ID, "pending-"), "optimistic entry must be replaced")
	assert.Equal(t, MutationReconciled, orders.LastMutation().State)
}

func TestPlaceOrderRollsBackOnConflict(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	// Empty cart: the server answers 409.
	orders := NewOrders(f.api, zerolog.Nop())
	_, err := orders.Place(context.Background(), checkoutReq())

	require.Error(t, err)
	assert.True(t, client.IsConflict(err))
	assert.Empty(t, orders.List(), "optimistic pending order must be removed")
	assert.Equal(t, MutationRolledBack, orders.LastMutation().State)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	orders := NewOrders(f.api, zerolog.Nop())
	before := f.srv.Requests()

	_, err := orders.Place(context.Background(), api.CheckoutRequest{PaymentMethod: "card"})
	assert.True(t, client.IsValidation(err))

	_, err = orders.Place(context.Background(), api.CheckoutRequest{AddressID: "addr-1"})
	assert.True(t, client.IsValidation(err))

	assert.Equal(t, before, f.srv.Requests())
}

func TestCancelRollsBackOnServerFailure(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	cart := NewCart(f.api, f.sess, zerolog.Nop())
	require.NoError(t, cart.Refresh(context.Background()))
	require.NoError(t, cart.Add(context.Background(), api.Product{ID: "p-2", Price: 80}, 1))

	orders := NewOrders(f.api, zerolog.Nop())
	placed, err := orders.Place(context.Background(), checkoutReq())
	require.NoError(t, err)

	f.srv.FailNext(500, 3)
	err = orders.Cancel(context.Background(), placed.ID)
	require.Error(t, err)

	list := orders.List()
	require.Len(t, list, 1)
	assert.Equal(t, string(api.OrderConfirmed), list[0].Status, "status must be restored")
	assert.Equal(t, MutationRolledBack, orders.LastMutation().State)
}

func TestCancelReconcilesStatus(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	cart := NewCart(f.api, f.sess, zerolog.Nop())
	require.NoError(t, cart.Refresh(context.Background()))
	require.NoError(t, cart.Add(context.Background(), api.Product{ID: "p-3", Price: 1200}, 1))

	orders := NewOrders(f.api, zerolog.Nop())
	placed, err := orders.Place(context.Background(), checkoutReq())
	require.NoError(t, err)

	require.NoError(t, orders.Cancel(context.Background(), placed.ID))

	assert.Equal(t, string(api.OrderCancelled), orders.List()[0].Status)
	assert.Equal(t, MutationReconciled, orders.LastMutation().State)
}
