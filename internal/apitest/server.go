// Package apitest is an in-process fake of the storefront API for tests:
// a chi router with a canned catalog, token-gated cart and order state,
// scriptable failure injection and request counting.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
)

const (
	SeedEmail    = "shopper@example.com"
	SeedPassword = "secret"
)

type failure struct {
	status int
	count  int
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests int
	fail     *failure

	user      api.User
	tokens    map[string]string // token -> userId
	carts     map[string]*api.Cart
	orders    map[string][]api.Order
	products  []api.Product
	userTypes []api.UserType
}

func New() *Server {
	s := &Server{
		user: api.User{
			ID:           "u-1",
			Email:        SeedEmail,
			Username:     "shopper",
			Role:         "customer",
			Status:       "approved",
			UserTypeID:   "ut-1",
			UserTypeName: "Residential",
		},
		tokens: make(map[string]string),
		carts:  make(map[string]*api.Cart),
		orders: make(map[string][]api.Order),
		products: []api.Product{
			{ID: "p-1", Name: "Oak Table", Price: 250, CategoryID: "c-1", InStock: true},
			{ID: "p-2", Name: "Walnut Chair", Price: 80, CategoryID: "c-1", InStock: true},
			{ID: "p-3", Name: "Kitchen Island", Price: 1200, CategoryID: "c-2", InStock: true},
		},
		userTypes: []api.UserType{
			{ID: "ut-1", Name: "Residential"},
			{ID: "ut-2", Name: "Commercial"},
			{ID: "ut-3", Name: "Modular Kitchen"},
			{ID: "ut-4", Name: "Others"},
		},
	}

	r := chi.NewRouter()
	r.Use(s.countAndInject)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/products", s.handleProducts)
		r.Get("/products/{productId}", s.handleProduct)
		r.Get("/user-types", s.handleUserTypes)
		r.Get("/seo", s.handleSEO)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/me", s.handleUpdateMe)
			r.Get("/cart", s.handleGetCart)
			r.Post("/cart", s.handleAddItem)
			r.Put("/cart/{itemId}", s.handleUpdateItem)
			r.Delete("/cart/{itemId}", s.handleRemoveItem)
			r.Get("/orders", s.handleListOrders)
			r.Post("/orders", s.handleCreateOrder)
			r.Post("/orders/{orderId}/cancel", s.handleCancelOrder)
		})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is what the client's Config.BaseURL should be.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// Requests reports how many requests actually reached the server.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = 0
	s.mu.Unlock()
}

// FailNext makes the next n requests answer with status before normal
// handling resumes.
func (s *Server) FailNext(status, n int) {
	s.mu.Lock()
	s.fail = &failure{status: status, count: n}
	s.mu.Unlock()
}

// SetUserTypes replaces the offered user types.
func (s *Server) SetUserTypes(types []api.UserType) {
	s.mu.Lock()
	s.userTypes = append([]api.UserType(nil), types...)
	s.mu.Unlock()
}

// IssueToken authenticates the seed user directly, bypassing the login
// endpoint, for tests that need a ready session.
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = s.user.ID
	return token
}

func (s *Server) countAndInject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		if s.fail != nil && s.fail.count > 0 {
			status := s.fail.status
			s.fail.count--
			if s.fail.count == 0 {
				s.fail = nil
			}
			s.mu.Unlock()
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()
		if token == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if creds.Email != s.user.Email || creds.Password != SeedPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	token := uuid.NewString()
	s.tokens[token] = s.user.ID
	writeJSON(w, http.StatusOK, api.LoginResult{Token: token, User: s.user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var u api.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Email != "" {
		s.user.Email = u.Email
	}
	if u.Username != "" {
		s.user.Username = u.Username
	}
	if u.UserTypeID != "" {
		s.user.UserTypeID = u.UserTypeID
		for _, ut := range s.userTypes {
			if ut.ID == u.UserTypeID {
				s.user.UserTypeName = ut.Name
			}
		}
	}
	writeJSON(w, http.StatusOK, s.user)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, api.ProductPage{
		Products: s.products,
		Total:    len(s.products),
		Page:     1,
		Pages:    1,
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "product not found"})
}

func (s *Server) handleUserTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.userTypes)
}

func (s *Server) handleSEO(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.SEOConfig{Title: "Storefront", Description: "test fixture"})
}

func (s *Server) cartFor(token string) *api.Cart {
	c, ok := s.carts[token]
	if !ok {
		c = &api.Cart{Items: []api.CartItem{}}
		s.carts[token] = c
	}
	return c
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.cartFor(bearer(r)))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req api.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var product *api.Product
	for i := range s.products {
		if s.products[i].ID == req.ProductID {
			product = &s.products[i]
		}
	}
	if product == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "product not found"})
		return
	}

	cart := s.cartFor(bearer(r))
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			merged = true
		}
	}
	if !merged {
		cart.Items = append(cart.Items, api.CartItem{
			ID:        "itm-" + req.ProductID,
			ProductID: req.ProductID,
			Name:      product.Name,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
	}
	recompute(cart)
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid quantity"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(bearer(r))
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = body.Quantity
			recompute(cart)
			writeJSON(w, http.StatusOK, cart)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "cart item not found"})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(bearer(r))
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	cart.Items = items
	recompute(cart)
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[bearer(r)]
	if orders == nil {
		orders = []api.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	token := bearer(r)
	cart := s.cartFor(token)
	if len(cart.Items) == 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "cart is empty"})
		return
	}

	order := api.Order{
		ID:            "ord-" + uuid.NewString()[:8],
		Items:         append([]api.CartItem(nil), cart.Items...),
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Status:        string(api.OrderConfirmed),
		Subtotal:      cart.Subtotal,
		Total:         cart.Total,
		CreatedAt:     time.Now(),
	}
	s.orders[token] = append([]api.Order{order}, s.orders[token]...)
	s.carts[token] = &api.Cart{Items: []api.CartItem{}}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[bearer(r)]
	for i := range orders {
		if orders[i].ID == orderID {
			if orders[i].Status == string(api.OrderDelivered) {
				writeJSON(w, http.StatusConflict, map[string]string{"message": "order already delivered"})
				return
			}
			orders[i].Status = string(api.OrderCancelled)
			writeJSON(w, http.StatusOK, orders[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "order not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func recompute(c *api.Cart) {
	subtotal := 0.0
	for i := range c.Items {
		c.Items[i].LineTotal = c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
		subtotal += c.Items[i].LineTotal
	}
	c.Subtotal = subtotal
	c.Total = subtotal
}
