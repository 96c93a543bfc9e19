package storefront

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

// Cart synchronizes the local cart with the server-side one. Mutations are
// applied locally first for responsiveness, then persisted; the server's
// reply is authoritative for totals. On a recoverable failure the
// pre-mutation snapshot is restored.
type Cart struct {
	mu   sync.Mutex
	api  *api.API
	sess *session.Session
	log  zerolog.Logger

	cart api.Cart
	last *Mutation
}

func NewCart(a *api.API, sess *session.Session, log zerolog.Logger) *Cart {
	return &Cart{
		api:  a,
		sess: sess,
		log:  log.With().Str("component", "cart").Logger(),
	}
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []api.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]api.CartItem, len(c.cart.Items))
	copy(items, c.cart.Items)
	return items
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Subtotal
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Total
}

// LastMutation reports how the most recent optimistic mutation ended.
func (c *Cart) LastMutation() *Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	m := *c.last
	return &m
}

// Refresh loads the authoritative cart. Without a token there is nothing to
// load: the cart is empty and the network is never touched.
func (c *Cart) Refresh(ctx context.Context) error {
	if c.sess.Token() == "" {
		c.mu.Lock()
		c.cart = api.Cart{}
		c.mu.Unlock()
		return nil
	}
	fresh, err := c.api.Cart.Get(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cart = normalize(*fresh)
	c.mu.Unlock()
	return nil
}

// Add puts quantity units of product into the cart.
func (c *Cart) Add(ctx context.Context, product api.Product, quantity int) error {
	if product.ID == "" {
		return &client.ValidationError{Field: "productId", Message: "productId is required"}
	}
	if quantity <= 0 {
		return &client.ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
	}

	return c.apply(ctx,
		func(cart *api.Cart) {
			for i := range cart.Items {
				if cart.Items[i].ProductID == product.ID {
					cart.Items[i].Quantity += quantity
					cart.Items[i].LineTotal = cart.Items[i].UnitPrice * float64(cart.Items[i].Quantity)
					return
				}
			}
			cart.Items = append(cart.Items, api.CartItem{
				ID:        "pending-" + product.ID,
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  quantity,
				UnitPrice: product.Price,
				LineTotal: product.Price * float64(quantity),
			})
		},
		func(ctx context.Context) (*api.Cart, error) {
			return c.api.Cart.AddItem(ctx, api.AddItemRequest{ProductID: product.ID, Quantity: quantity})
		},
	)
}

// SetQuantity drives a line to an exact quantity (>= 1).
func (c *Cart) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return &client.ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
	}
	return c.apply(ctx,
		func(cart *api.Cart) { setQuantity(cart, itemID, quantity) },
		func(ctx context.Context) (*api.Cart, error) {
			return c.api.Cart.UpdateItem(ctx, itemID, quantity)
		},
	)
}

func (c *Cart) Increment(ctx context.Context, itemID string) error {
	qty, ok := c.quantityOf(itemID)
	if !ok {
		return &client.ValidationError{Field: "itemId", Message: "no such cart item"}
	}
	return c.SetQuantity(ctx, itemID, qty+1)
}

// Decrement lowers a line's quantity by one. At quantity 1 it is a no-op:
// removal is a separate, explicit action.
func (c *Cart) Decrement(ctx context.Context, itemID string) error {
	qty, ok := c.quantityOf(itemID)
	if !ok {
		return &client.ValidationError{Field: "itemId", Message: "no such cart item"}
	}
	if qty <= 1 {
		return nil
	}
	return c.SetQuantity(ctx, itemID, qty-1)
}

func (c *Cart) Remove(ctx context.Context, itemID string) error {
	if itemID == "" {
		return &client.ValidationError{Field: "itemId", Message: "itemId is required"}
	}
	return c.apply(ctx,
		func(cart *api.Cart) {
			items := cart.Items[:0]
			for _, it := range cart.Items {
				if it.ID != itemID {
					items = append(items, it)
				}
			}
			cart.Items = items
		},
		func(ctx context.Context) (*api.Cart, error) {
			return c.api.Cart.RemoveItem(ctx, itemID)
		},
	)
}

// apply runs one optimistic mutation: snapshot, local change, persist, then
// reconcile with the server cart or roll back to the snapshot.
func (c *Cart) apply(ctx context.Context, mutate func(*api.Cart), persist func(context.Context) (*api.Cart, error)) error {
	c.mu.Lock()
	snapshot := cloneCart(c.cart)
	m := newMutation()
	c.last = m
	mutate(&c.cart)
	recompute(&c.cart)
	c.mu.Unlock()

	serverCart, err := persist(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		m.State = MutationRolledBack
		c.cart = snapshot
		c.log.Warn().Err(err).Str("mutation", m.ID).Msg("cart mutation rolled back")
		return err
	}
	m.State = MutationReconciled
	c.cart = normalize(*serverCart)
	return nil
}

func (c *Cart) quantityOf(itemID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.cart.Items {
		if it.ID == itemID {
			return it.Quantity, true
		}
	}
	return 0, false
}

func setQuantity(cart *api.Cart, itemID string, quantity int) {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			cart.Items[i].LineTotal = cart.Items[i].UnitPrice * float64(quantity)
			return
		}
	}
}

func cloneCart(c api.Cart) api.Cart {
	out := c
	out.Items = make([]api.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// normalize re-derives every line total from the server's unit price and
// quantity, keeping the lineTotal == unitPrice * quantity invariant even
// when the backend omits derived fields.
func normalize(c api.Cart) api.Cart {
	for i := range c.Items {
		c.Items[i].LineTotal = c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
	}
	if c.Subtotal == 0 {
		recompute(&c)
	}
	return c
}

func recompute(c *api.Cart) {
	subtotal := 0.0
	for i := range c.Items {
		c.Items[i].LineTotal = c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
		subtotal += c.Items[i].LineTotal
	}
	c.Subtotal = subtotal
	c.Total = subtotal + c.Tax
}
