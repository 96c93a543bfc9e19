package api

import "time"

type User struct {
	ID           string `json:"userId"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	UserTypeID   string `json:"userTypeId"`
	UserTypeName string `json:"userTypeName"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Username   string `json:"username"`
	UserTypeID string `json:"userTypeId,omitempty"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Product struct {
	ID          string   `json:"productId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CategoryID  string   `json:"categoryId"`
	Images      []string `json:"images,omitempty"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"ratingCount"`
	InStock     bool     `json:"inStock"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

type Rating struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment,omitempty"`
}

type ProductRating struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID       string `json:"categoryId"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

type CartItem struct {
	ID        string  `json:"itemId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type Cart struct {
	Items    []CartItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"totalAmount"`
}

type Address struct {
	ID         string `json:"addressId"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

type Order struct {
	ID            string     `json:"orderId"`
	Items         []CartItem `json:"items"`
	AddressID     string     `json:"addressId"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	Subtotal      float64    `json:"subtotal"`
	Total         float64    `json:"totalAmount"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type CheckoutRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

type UserType struct {
	ID   string `json:"userTypeId"`
	Name string `json:"name"`
}

type Enquiry struct {
	ID        string `json:"enquiryId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
	ProductID string `json:"productId,omitempty"`
}

type SEOConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"ogImage,omitempty"`
}

type AccountStatus struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}
