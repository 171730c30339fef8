package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/common"
)

func (a *App) ShowCart(ctx context.Context) error {
	lines := a.shop.CartLines()
	if len(lines) == 0 {
		printlnFn("Your cart is empty.")
		return nil
	}
	for i, l := range lines {
		printlnFn(fmt.Sprintf("%3d. %-30s ₹%d x %d = ₹%d",
			i+1, l.Name, l.DiscountedUnitPrice(), l.Quantity, l.LineTotal()))
	}
	printlnFn(fmt.Sprintf("Total: ₹%d", a.shop.CartTotal()))
	return nil
}

// Add puts a product in the cart by its position in the product listing:
// "add 3" or "add 3 2" for two units.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		printlnFn("Usage: add <n> [qty]")
		return nil
	}
	product, ok := a.productByPosition(args[0])
	if !ok {
		return nil
	}
	quantity := 1
	if len(args) > 1 {
		q, err := strconv.Atoi(args[1])
		if err != nil {
			printlnFn("Quantity must be a number.")
			return nil
		}
		quantity = q
	}

	if err := a.shop.AddToCart(ctx, product, quantity); err != nil {
		switch {
		case errors.Is(err, common.ErrAuthRequired):
			printlnFn("Please 'login' before adding to the cart.")
		case errors.Is(err, common.ErrValidation):
			printlnFn("Quantity must be at least 1.")
		default:
			printlnFn("Could not add to cart:", err.Error())
		}
		return err
	}
	printlnFn(fmt.Sprintf("Added %s x %d.", product.Name, quantity))
	return nil
}

// Remove drops a cart line by its position in the cart listing.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: remove <n>")
		return nil
	}
	line, ok := a.cartLineByPosition(args[0])
	if !ok {
		return nil
	}
	a.shop.RemoveFromCart(ctx, line.ProductID)
	printlnFn("Removed", line.Name)
	return nil
}

// Quantity sets a cart line's quantity by its position in the cart listing.
func (a *App) Quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: qty <n> <count>")
		return nil
	}
	line, ok := a.cartLineByPosition(args[0])
	if !ok {
		return nil
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		printlnFn("Quantity must be a number.")
		return nil
	}
	if err := a.shop.UpdateQuantity(ctx, line.ProductID, count); err != nil {
		if errors.Is(err, common.ErrValidation) {
			printlnFn("Quantity must be at least 1; use 'remove' to delete a line.")
		} else {
			printlnFn("Could not update quantity:", err.Error())
		}
		return err
	}
	printlnFn(fmt.Sprintf("%s x %d.", line.Name, count))
	return nil
}

func (a *App) productByPosition(arg string) (models.Product, bool) {
	n, err := strconv.Atoi(arg)
	products := a.shop.Products()
	if err != nil || n < 1 || n > len(products) {
		printlnFn("No such product. Use 'products' to list positions.")
		return models.Product{}, false
	}
	return products[n-1], true
}

func (a *App) cartLineByPosition(arg string) (models.CartLine, bool) {
	n, err := strconv.Atoi(arg)
	lines := a.shop.CartLines()
	if err != nil || n < 1 || n > len(lines) {
		printlnFn("No such cart line. Use 'cart' to list positions.")
		return models.CartLine{}, false
	}
	return lines[n-1], true
}
