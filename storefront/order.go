package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
)

// Orders synchronizes the order history. Placing an order inserts an
// optimistic pending entry that is replaced by the server's order on
// success and removed on failure; cancellation flips status optimistically
// and restores it if the server refuses.
type Orders struct {
	mu  sync.Mutex
	api *api.API
	log zerolog.Logger

	orders []api.Order
	last   *Mutation
}

func NewOrders(a *api.API, log zerolog.Logger) *Orders {
	return &Orders{
		api: a,
		log: log.With().Str("component", "orders").Logger(),
	}
}

func (o *Orders) List() []api.Order {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]api.Order, len(o.orders))
	copy(out, o.orders)
	return out
}

func (o *Orders) LastMutation() *Mutation {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return nil
	}
	m := *o.last
	return &m
}

func (o *Orders) Refresh(ctx context.Context) error {
	orders, err := o.api.Orders.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.orders = orders
	o.mu.Unlock()
	return nil
}

// Place checks out the current server-side cart. The returned order is the
// server's; the optimistic entry only exists while the call is in flight.
func (o *Orders) Place(ctx context.Context, req api.CheckoutRequest) (*api.Order, error) {
	m := newMutation()
	pendingID := "pending-" + uuid.NewString()

	o.mu.Lock()
	o.last = m
	o.orders = append([]api.Order{{
		ID:            pendingID,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Status:        string(api.OrderPending),
		CreatedAt:     time.Now(),
	}}, o.orders...)
	o.mu.Unlock()

	placed, err := o.api.Orders.Create(ctx, req)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		m.State = MutationRolledBack
		o.orders = removeOrder(o.orders, pendingID)
		o.log.Warn().Err(err).Msg("order placement rolled back")
		return nil, err
	}
	m.State = MutationReconciled
	o.orders = removeOrder(o.orders, pendingID)
	o.orders = append([]api.Order{*placed}, o.orders...)
	return placed, nil
}

// Cancel requests cancellation. Placed orders are immutable apart from this
// status transition.
func (o *Orders) Cancel(ctx context.Context, orderID string) error {
	m := newMutation()

	o.mu.Lock()
	o.last = m
	prev, found := statusOf(o.orders, orderID)
	if found {
		setStatus(o.orders, orderID, string(api.OrderCancelled))
	}
	o.mu.Unlock()

	cancelled, err := o.api.Orders.Cancel(ctx, orderID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		m.State = MutationRolledBack
		if found {
			setStatus(o.orders, orderID, prev)
		}
		o.log.Warn().Err(err).Str("orderId", orderID).Msg("order cancel rolled back")
		return err
	}
	m.State = MutationReconciled
	if found {
		setStatus(o.orders, orderID, cancelled.Status)
	}
	return nil
}

func removeOrder(orders []api.Order, id string) []api.Order {
	out := orders[:0]
	for _, ord := range orders {
		if ord.ID != id {
			out = append(out, ord)
		}
	}
	return out
}

func statusOf(orders []api.Order, id string) (string, bool) {
	for _, ord := range orders {
		if ord.ID == id {
			return ord.Status, true
		}
	}
	return "", false
}

func setStatus(orders []api.Order, id, status string) {
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			return
		}
	}
}
