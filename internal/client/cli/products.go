package cli

import (
	"context"
	"fmt"
)

func (a *App) Products(ctx context.Context) error {
	products := a.shop.Products()
	if len(products) == 0 {
		printlnFn("Catalog is empty. Is the backend reachable?")
		return nil
	}
	for i, p := range products {
		printlnFn(fmt.Sprintf("%3d. %-30s %-10s ₹%d (was ₹%.0f)  by %s",
			i+1, p.Name, p.Category, p.DiscountedPrice(), p.Price, p.Seller))
	}
	return nil
}
