// Package model defines domain entities shared by the stores, the API client
// and the CLI.
package model

import "time"

// Role is the access level attached to an authenticated identity.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the roles the backend knows.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Identity is the authenticated user as returned by the auth endpoints.
type Identity struct {
	Token       string    `json:"token"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expiresAt"` // access token expiry (for diagnostics)
}

// Book is a single catalog entry.
type Book struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre,omitempty"`
	ISBN          string  `json:"isbn,omitempty"`
	Price         float64 `json:"price"`
	Description   string  `json:"description,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// CartLine is one book's presence in the cart. Price and stock are snapshots
// taken when the book entered the cart; the server re-checks both at order
// time.
type CartLine struct {
	BookID       int64   `json:"bookId"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	StockCeiling int     `json:"stockCeiling"`
}

// Subtotal is UnitPrice times Quantity.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// BookPage is one page of a catalog listing.
type BookPage struct {
	Books         []Book `json:"content"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int64  `json:"totalElements"`
}

// OrderStatus is the server-side order lifecycle state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s names a known lifecycle state.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is one line of a placed order as the server reports it.
type OrderItem struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"bookId"`
	BookTitle  string  `json:"bookTitle"`
	BookAuthor string  `json:"bookAuthor"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Subtotal   float64 `json:"subtotal"`
}

// Order is a placed order with its authoritative server-side totals.
type Order struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"userId"`
	UserName      string      `json:"userName,omitempty"`
	UserEmail     string      `json:"userEmail,omitempty"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Status        OrderStatus `json:"status"`
	PaymentStatus string      `json:"paymentStatus,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders        []Order `json:"content"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int64   `json:"totalElements"`
}
