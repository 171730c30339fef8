package models

import "math"

// CartLine is one product-and-quantity entry in a cart. The display fields
// are denormalized from the product by the backend at add time. Invariants:
// at most one line per product id, quantity never below 1 (removal, not a
// zero quantity, represents deletion).
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Seller    string  `json:"seller"`
	Quantity  int     `json:"quantity"`
}

// DiscountedUnitPrice is the per-unit price after discount, rounded to the
// nearest whole currency unit.
func (l CartLine) DiscountedUnitPrice() int64 {
	return int64(math.Round(l.Price * (1 - DiscountRate)))
}

// LineTotal is DiscountedUnitPrice times quantity. Order summaries sum
// these per-line figures; see cart.Synchronizer.Total.
func (l CartLine) LineTotal() int64 {
	return l.DiscountedUnitPrice() * int64(l.Quantity)
}
