// Package catalog caches the product list fetched once at startup.
// Read-only to consumers.
package catalog

import (
	"context"
	"slices"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/logging"
)

type Cache struct {
	client api.Client
	log    logging.Logger

	products []models.Product
}

func NewCache(client api.Client, log logging.Logger) *Cache {
	return &Cache{client: client, log: log}
}

// Fetch populates the cache from the backend. On failure the cache stays
// empty and the error is only logged; there is no automatic retry and the
// rest of the engine initializes regardless.
func (c *Cache) Fetch(ctx context.Context) {
	products, err := c.client.Products(ctx)
	if err != nil {
		c.log.Error(ctx, "fetching products", "error", err)
		return
	}
	c.products = products
	c.log.Info(ctx, "catalog loaded", "products", len(products))
}

// Products returns a copy of the cached list in backend order.
func (c *Cache) Products() []models.Product {
	return slices.Clone(c.products)
}

// ProductByID looks up a single product.
func (c *Cache) ProductByID(id string) (models.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// ProductsByCategory returns the cached products of one category, keeping
// backend order.
func (c *Cache) ProductsByCategory(cat models.Category) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}
