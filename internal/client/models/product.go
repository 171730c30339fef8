package models

import "math"

// Category enumerates the kinds of goods the storefront sells.
type Category string

const (
	CategoryPots      Category = "Pots"
	CategoryBedsheets Category = "Bedsheets"
	CategoryClothes   Category = "Clothes"
)

// DiscountRate is the storefront-wide discount applied to every displayed
// and charged price.
const DiscountRate = 0.10

// Product is an immutable catalog snapshot fetched from the backend. The
// catalog cache owns the product list and never mutates individual entries.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Seller      string   `json:"seller"`
	Description string   `json:"description"`
}

// DiscountedPrice is the price after discount, rounded to the nearest whole
// currency unit. Listings show it next to the struck-through original price.
func (p Product) DiscountedPrice() int64 {
	return int64(math.Round(p.Price * (1 - DiscountRate)))
}
