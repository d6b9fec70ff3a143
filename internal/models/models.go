package models

import (
	"strings"
	"time"
)

// Customer represents a registered customer account
type Customer struct {
	ID            int64     `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	VerifiedEmail bool      `db:"verified_email" json:"verified_email"`
	Address       string    `db:"address" json:"address"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Product represents a catalog entry. Price is in cents.
type Product struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Price            int64     `db:"price" json:"price"`
	Description      string    `db:"description" json:"description"`
	SmallDescription string    `db:"small_description" json:"small_description"`
	ImageURL         string    `db:"image_url" json:"image_url"`
	Features         string    `db:"features" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// FeatureList splits the stored feature text into individual lines.
func (p *Product) FeatureList() []string {
	if p.Features == "" {
		return nil
	}
	return strings.Split(p.Features, "\n")
}

// Category is a named product grouping, many-to-many with Product.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CartItem is one (customer, product) row in the live cart.
// Quantity is always >= 1; a row at zero is deleted, never persisted.
type CartItem struct {
	ID         int64 `db:"id" json:"id"`
	CustomerID int64 `db:"customer_id" json:"customer_id"`
	ProductID  int64 `db:"product_id" json:"product_id"`
	Quantity   int   `db:"quantity" json:"quantity"`
}

// CartLine is a cart item joined with its live product for display.
// LineTotal uses the current catalog price; prices only freeze at checkout.
type CartLine struct {
	CartItem
	Product   Product `json:"product"`
	LineTotal int64   `json:"line_total"`
}

// Order is a placed order. Address is a snapshot taken from the customer
// profile at placement time, mutable afterward only while still confirmed.
type Order struct {
	ID              int64       `db:"id" json:"id"`
	CustomerID      int64       `db:"customer_id" json:"customer_id"`
	OrderedDate     time.Time   `db:"ordered_date" json:"ordered_date"`
	ArrivingDate    time.Time   `db:"arriving_date" json:"arriving_date"`
	Status          OrderStatus `db:"status" json:"status"`
	StatusChangedAt time.Time   `db:"status_changed_at" json:"status_changed_at"`
	Address         string      `db:"address" json:"address"`
	Feedback        string      `db:"feedback" json:"feedback,omitempty"`
}

// OrderedItem is a frozen (product, quantity, price) snapshot taken at
// checkout; later catalog price changes never touch it.
type OrderedItem struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	Price     int64 `db:"price" json:"price"`
}

// OrderSummary is one order in a status-filtered listing: the distinct
// product names it contains and its total over frozen snapshot prices.
type OrderSummary struct {
	Order        Order    `json:"order"`
	ProductNames []string `json:"product_names"`
	Total        int64    `json:"total"`
}
