// Package orders provides read-only access to order data from the
// e-commerce platform. This system never writes back to it.
package orders

import (
	"context"
	"errors"
)

// Address is an order's shipping address.
type Address struct {
	Name        string
	Company     string
	Address1    string
	Address2    string
	City        string
	Zip         string
	Province    string
	CountryCode string
	Phone       string
}

// ShippingLine is one shipping-method descriptor on an order.
type ShippingLine struct {
	Title string
	Code  string
}

// LineItem is one ordered item. Grams is the per-unit mass.
type LineItem struct {
	Title    string
	Quantity int
	Grams    int
	Price    float64
	SKU      string
}

// Order is the read-only order snapshot used to build a shipment.
type Order struct {
	Name            string // order number as displayed, e.g. "#1042"
	Email           string
	TotalPrice      string
	Currency        string
	ShippingAddress Address
	ShippingLines   []ShippingLine
	LineItems       []LineItem
}

// Provider fetches a single order by its order number.
type Provider interface {
	GetOrder(ctx context.Context, orderNumber string) (*Order, error)
}

// Sentinel errors for order lookups.
var (
	// ErrNotConfigured indicates the platform credentials are missing.
	ErrNotConfigured = errors.New("order platform not configured")

	// ErrNotFound indicates no order matched the given number.
	ErrNotFound = errors.New("order not found")
)

// Placeholder returns fixed demo order data. Callers substitute it for a
// failed fetch only in test mode; production failures must surface.
func Placeholder(orderNumber string) *Order {
	if orderNumber == "" {
		orderNumber = "#0000"
	}
	return &Order{
		Name:       orderNumber,
		Email:      "demo@ateliernord.example",
		TotalPrice: "49.90",
		Currency:   "EUR",
		ShippingAddress: Address{
			Name:        "Camille Dupont",
			Address1:    "18 Rue de la Paix",
			City:        "Paris",
			Zip:         "75002",
			CountryCode: "FR",
			Phone:       "+33 6 12 34 56 78",
		},
		ShippingLines: []ShippingLine{
			{Title: "Mondial Relay - Point Relais", Code: "pudo-fr"},
		},
		LineItems: []LineItem{
			{Title: "Linen shirt", Quantity: 1, Grams: 350, Price: 49.90, SKU: "AN-LS-01"},
		},
	}
}
