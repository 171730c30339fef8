// Package shop composes the session store, catalog cache, cart synchronizer
// and checkout orchestrator behind a single facade. UI surfaces depend only
// on this type: they call its operations and read its state, and never talk
// to the network directly.
package shop

import (
	"context"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/cart"
	"github.com/kolamstudio/shopengine/internal/client/catalog"
	"github.com/kolamstudio/shopengine/internal/client/checkout"
	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/client/repositories/tokens"
	"github.com/kolamstudio/shopengine/internal/client/session"
	"github.com/kolamstudio/shopengine/internal/logging"
)

type Shop struct {
	client   api.Client
	session  *session.Store
	catalog  *catalog.Cache
	cart     *cart.Synchronizer
	checkout *checkout.Orchestrator
	log      logging.Logger
}

// New wires the engine together. A login (or restored session) triggers a
// cart refresh, and any token rejection reported by the transport funnels
// into the same cleanup as an explicit logout.
func New(client api.Client, tokenRepo tokens.Repository, log logging.Logger) *Shop {
	s := &Shop{client: client, log: log}

	s.session = session.NewStore(client, tokenRepo, log)
	s.catalog = catalog.NewCache(client, log)
	s.cart = cart.NewSynchronizer(client, s.session.IsAuthenticated, log)
	s.checkout = checkout.NewOrchestrator(client, s.cart, log)

	s.session.OnLogin(func(ctx context.Context) {
		// refresh failures already reset the cart to empty and log
		_ = s.cart.Refresh(ctx)
	})

	if notifier, ok := client.(api.AuthRejectionNotifier); ok {
		notifier.OnAuthRejected(s.forceLogout)
	}
	return s
}

// forceLogout runs when the backend rejects the bearer token mid-session.
func (s *Shop) forceLogout(ctx context.Context) {
	s.log.Warn(ctx, "token rejected by backend, logging out")
	s.session.Logout(ctx)
	s.cart.Clear()
	s.checkout.Abandon()
}

// Init restores a persisted session and loads the catalog, in that order.
// Neither failure blocks the other or the caller: the engine comes up
// unauthenticated and/or with an empty catalog.
func (s *Shop) Init(ctx context.Context) {
	s.session.Restore(ctx)
	s.catalog.Fetch(ctx)
}

// --- session ---

func (s *Shop) Login(ctx context.Context, email, password string) session.Result {
	return s.session.Login(ctx, email, password)
}

func (s *Shop) Register(ctx context.Context, fullName, email, password string) session.Result {
	return s.session.Register(ctx, fullName, email, password)
}

// Logout clears the persisted token, the current user and the local cart.
// No network call is needed and calling it again is harmless.
func (s *Shop) Logout(ctx context.Context) {
	s.session.Logout(ctx)
	s.cart.Clear()
	s.checkout.Abandon()
}

func (s *Shop) User() *models.User    { return s.session.User() }
func (s *Shop) IsAuthenticated() bool { return s.session.IsAuthenticated() }

// --- catalog ---

func (s *Shop) Products() []models.Product { return s.catalog.Products() }

func (s *Shop) ProductByID(id string) (models.Product, bool) {
	return s.catalog.ProductByID(id)
}

func (s *Shop) ProductsByCategory(cat models.Category) []models.Product {
	return s.catalog.ProductsByCategory(cat)
}

// --- cart ---

func (s *Shop) RefreshCart(ctx context.Context) error { return s.cart.Refresh(ctx) }

func (s *Shop) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	return s.cart.Add(ctx, product, quantity)
}

func (s *Shop) RemoveFromCart(ctx context.Context, productID string) {
	s.cart.Remove(ctx, productID)
}

func (s *Shop) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.cart.UpdateQuantity(ctx, productID, quantity)
}

func (s *Shop) CartLines() []models.CartLine { return s.cart.Lines() }
func (s *Shop) CartCount() int               { return s.cart.Count() }
func (s *Shop) CartTotal() int64             { return s.cart.Total() }

// --- checkout ---

func (s *Shop) CheckoutStep() checkout.Step { return s.checkout.Step() }
func (s *Shop) BeginCheckout() error        { return s.checkout.Begin() }

func (s *Shop) SubmitShipping(draft checkout.Draft) error {
	return s.checkout.SubmitShipping(draft)
}

func (s *Shop) StartPayment(ctx context.Context) (*checkout.PaymentAttempt, error) {
	return s.checkout.StartPayment(ctx)
}

func (s *Shop) ResolvePayment(ctx context.Context, attempt *checkout.PaymentAttempt, outcome checkout.Outcome) error {
	return s.checkout.Resolve(ctx, attempt, outcome)
}

func (s *Shop) AbandonCheckout() { s.checkout.Abandon() }
func (s *Shop) ResetCheckout()   { s.checkout.Reset() }
