// Package cart holds the authoritative local copy of the user's cart and
// mediates every mutation through the backend. The backend cart is the
// source of truth: local state is a cache that converges to the server's
// response after each mutating call.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/common"
	"github.com/kolamstudio/shopengine/internal/logging"
)

// Synchronizer reconciles the local cart with the backend.
//
// Every mutation takes a ticket from a monotonic counter before its network
// call, and its reconciliation (a full refetch or a local patch) is applied
// only while that ticket is still the newest issued. A slow response from an
// earlier mutation can therefore never clobber the result of a later one:
// the last issued mutation wins, not the last to return.
type Synchronizer struct {
	client api.Client
	authed func() bool
	log    logging.Logger

	mu    sync.Mutex
	lines []models.CartLine
	seq   uint64 // newest issued ticket
}

// NewSynchronizer builds a cart over the given transport. authed reports
// whether a user is currently active; mutations that require one are
// rejected locally when it returns false.
func NewSynchronizer(client api.Client, authed func() bool, log logging.Logger) *Synchronizer {
	return &Synchronizer{client: client, authed: authed, log: log}
}

func (s *Synchronizer) nextTicket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Refresh replaces the local cart with the backend's current line items.
// On failure the local cart is emptied rather than left stale.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.refresh(ctx, s.nextTicket())
}

func (s *Synchronizer) refresh(ctx context.Context, ticket uint64) error {
	lines, err := s.client.Cart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.seq {
		s.log.Debug(ctx, "discarding stale cart refresh", "ticket", ticket, "newest", s.seq)
		return nil
	}
	if err != nil {
		s.log.Error(ctx, "fetching cart", "error", err)
		s.lines = nil
		return fmt.Errorf("fetching cart: %w", err)
	}
	s.lines = lines
	return nil
}

// Add sends the product and quantity to the backend, then refetches the
// authoritative result: the backend, not the client, decides whether this
// merges into an existing line. Requires an active user; without one the
// operation is rejected before any network call.
func (s *Synchronizer) Add(ctx context.Context, product models.Product, quantity int) error {
	if !s.authed() {
		return common.ErrAuthRequired
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", common.ErrValidation)
	}

	ticket := s.nextTicket()
	if err := s.client.AddToCart(ctx, product.ID, quantity); err != nil {
		return fmt.Errorf("adding %q to cart: %w", product.Name, err)
	}
	return s.refresh(ctx, ticket)
}

// Remove deletes the line for productID. Deletion is idempotent and
// unambiguous, so on success the line is dropped locally without a refetch;
// removing an id that is not in the cart is a no-op. Failures are logged and
// leave local state unchanged.
func (s *Synchronizer) Remove(ctx context.Context, productID string) {
	ticket := s.nextTicket()
	if err := s.client.RemoveFromCart(ctx, productID); err != nil {
		s.log.Error(ctx, "removing from cart", "product_id", productID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.seq {
		return
	}
	s.lines = slices.DeleteFunc(s.lines, func(l models.CartLine) bool {
		return l.ProductID == productID
	})
}

// UpdateQuantity sets the line's quantity. Quantities below 1 are rejected
// locally; deletion is Remove, not a zero quantity. Unlike Remove, failures
// propagate to the caller, which decides on user feedback.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", common.ErrValidation)
	}

	ticket := s.nextTicket()
	if err := s.client.UpdateQuantity(ctx, productID, quantity); err != nil {
		return fmt.Errorf("updating quantity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.seq {
		return nil
	}
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	return nil
}

// Clear drops the local cart without touching the backend. Used by logout
// and by a confirmed checkout, which clear the server side by other means.
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the cart in backend order.
func (s *Synchronizer) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Count returns the number of cart lines.
func (s *Synchronizer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Total is the discounted order total in whole currency units: each line's
// discounted unit price is rounded first, then multiplied by quantity and
// summed. This is the figure checkout charges.
func (s *Synchronizer) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, l := range s.lines {
		total += l.LineTotal()
	}
	return total
}

// FullPrecisionTotal applies the discount to the unrounded product prices.
// It can differ from Total by a few currency units; surfaces that
// historically displayed the unrounded figure use this one.
func (s *Synchronizer) FullPrecisionTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.lines {
		total += l.Price * (1 - models.DiscountRate) * float64(l.Quantity)
	}
	return total
}
