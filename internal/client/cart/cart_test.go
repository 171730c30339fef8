package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/common"
	"github.com/kolamstudio/shopengine/internal/logging"
)

// ---- fake client ----

// fakeClient implements api.Client. The cart-related methods delegate to
// optional hooks so tests can control timing; everything else is inert.
type fakeClient struct {
	cartFn   func(ctx context.Context) ([]models.CartLine, error)
	addFn    func(ctx context.Context, productID string, quantity int) error
	removeFn func(ctx context.Context, productID string) error
	updateFn func(ctx context.Context, productID string, quantity int) error

	mu          sync.Mutex
	cartCalls   int
	addCalls    int
	removeCalls int
	updateCalls int
}

func (f *fakeClient) count(n *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	*n++
	return *n
}

func (f *fakeClient) Cart(ctx context.Context) ([]models.CartLine, error) {
	f.count(&f.cartCalls)
	if f.cartFn != nil {
		return f.cartFn(ctx)
	}
	return nil, nil
}

func (f *fakeClient) AddToCart(ctx context.Context, productID string, quantity int) error {
	f.count(&f.addCalls)
	if f.addFn != nil {
		return f.addFn(ctx, productID, quantity)
	}
	return nil
}

func (f *fakeClient) RemoveFromCart(ctx context.Context, productID string) error {
	f.count(&f.removeCalls)
	if f.removeFn != nil {
		return f.removeFn(ctx, productID)
	}
	return nil
}

func (f *fakeClient) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	f.count(&f.updateCalls)
	if f.updateFn != nil {
		return f.updateFn(ctx, productID, quantity)
	}
	return nil
}

func (f *fakeClient) calls() (cart, add, remove, update int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartCalls, f.addCalls, f.removeCalls, f.updateCalls
}

func (f *fakeClient) Products(ctx context.Context) ([]models.Product, error) { return nil, nil }
func (f *fakeClient) Me(ctx context.Context) (*models.User, error)           { return nil, nil }
func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	return nil, nil
}
func (f *fakeClient) Register(ctx context.Context, fullName, email, password string) (string, error) {
	return "", nil
}
func (f *fakeClient) Checkout(ctx context.Context) error { return nil }
func (f *fakeClient) CreatePaymentOrder(ctx context.Context, amount int64, email string) (*api.PaymentOrder, error) {
	return nil, nil
}
func (f *fakeClient) VerifyPayment(ctx context.Context, req api.VerifyPaymentRequest) error {
	return nil
}
func (f *fakeClient) SetToken(token string) {}
func (f *fakeClient) ClearToken()           {}
func (f *fakeClient) Token() string         { return "" }

func authed() bool   { return true }
func unauthed() bool { return false }

func line(id string, price float64, qty int) models.CartLine {
	return models.CartLine{ProductID: id, Name: id, Price: price, Quantity: qty}
}

func staticCart(lines []models.CartLine) func(ctx context.Context) ([]models.CartLine, error) {
	return func(ctx context.Context) ([]models.CartLine, error) { return lines, nil }
}

// ---- tests ----

func TestRefresh_ReplacesLocalState(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())

	require.NoError(t, s.Refresh(context.Background()))
	require.Len(t, s.Lines(), 1)
	require.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestRefresh_FailureEmptiesCart(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))
	require.Equal(t, 1, s.Count())

	client.cartFn = func(ctx context.Context) ([]models.CartLine, error) {
		return nil, errors.New("boom")
	}
	err := s.Refresh(context.Background())
	require.Error(t, err)
	require.Zero(t, s.Count(), "stale contents must never be shown")
}

func TestAdd_RequiresActiveUser(t *testing.T) {
	client := &fakeClient{}
	s := NewSynchronizer(client, unauthed, logging.Discard())

	err := s.Add(context.Background(), models.Product{ID: "p1"}, 1)
	require.ErrorIs(t, err, common.ErrAuthRequired)

	_, add, _, _ := client.calls()
	require.Zero(t, add, "rejected before any network call")
	require.Zero(t, s.Count())
}

func TestAdd_RefetchesMergedResult(t *testing.T) {
	// The server merges a second add of the same product into one line.
	merged := []models.CartLine{line("p1", 1000, 3)}
	client := &fakeClient{cartFn: staticCart(merged)}
	s := NewSynchronizer(client, authed, logging.Discard())

	require.NoError(t, s.Add(context.Background(), models.Product{ID: "p1", Price: 1000}, 1))
	require.NoError(t, s.Add(context.Background(), models.Product{ID: "p1", Price: 1000}, 2))

	lines := s.Lines()
	require.Len(t, lines, 1, "never two lines for one product id")
	require.Equal(t, 3, lines[0].Quantity)

	cart, add, _, _ := client.calls()
	require.Equal(t, 2, add)
	require.Equal(t, 2, cart, "every add refetches the authoritative cart")
}

func TestAdd_FailureLeavesStateUnchanged(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 1)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	client.addFn = func(ctx context.Context, productID string, quantity int) error {
		return errors.New("Product not found")
	}
	err := s.Add(context.Background(), models.Product{ID: "p2", Name: "Vase"}, 1)
	require.Error(t, err)
	require.Equal(t, []models.CartLine{line("p1", 1000, 1)}, s.Lines())
}

func TestRemove_DropsLineLocally(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{
		line("p1", 1000, 2), line("p2", 500, 1),
	})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	s.Remove(context.Background(), "p1")

	lines := s.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "p2", lines[0].ProductID)

	cart, _, remove, _ := client.calls()
	require.Equal(t, 1, remove)
	require.Equal(t, 1, cart, "removal needs no refetch")
}

func TestRemove_AbsentProductIsNoOp(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	require.NotPanics(t, func() { s.Remove(context.Background(), "ghost") })
	require.Equal(t, 1, s.Count())
}

func TestRemove_FailureLeavesStateUnchanged(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	client.removeFn = func(ctx context.Context, productID string) error {
		return errors.New("boom")
	}
	s.Remove(context.Background(), "p1")
	require.Equal(t, 1, s.Count())
}

func TestUpdateQuantity_RejectsBelowOneLocally(t *testing.T) {
	client := &fakeClient{}
	s := NewSynchronizer(client, authed, logging.Discard())

	for _, q := range []int{0, -1} {
		err := s.UpdateQuantity(context.Background(), "p1", q)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	_, _, _, update := client.calls()
	require.Zero(t, update, "quantity 0 must never reach the backend")
}

func TestUpdateQuantity_PatchesLocally(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	require.NoError(t, s.UpdateQuantity(context.Background(), "p1", 5))
	require.Equal(t, 5, s.Lines()[0].Quantity)

	cart, _, _, _ := client.calls()
	require.Equal(t, 1, cart, "quantity update needs no refetch")
}

func TestUpdateQuantity_FailurePropagates(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	client.updateFn = func(ctx context.Context, productID string, quantity int) error {
		return errors.New("Item not found in cart")
	}
	err := s.UpdateQuantity(context.Background(), "p1", 4)
	require.Error(t, err)
	require.Equal(t, 2, s.Lines()[0].Quantity, "local state unchanged on failure")
}

func TestUpdateQuantity_LastIssuedWins(t *testing.T) {
	// Two rapid updates, 3 then 5: the response for 3 resolves after the one
	// for 5 and must be discarded.
	entered := make(chan struct{})
	release := make(chan struct{})

	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	client.updateFn = func(ctx context.Context, productID string, quantity int) error {
		if quantity == 3 {
			close(entered)
			<-release
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- s.UpdateQuantity(context.Background(), "p1", 3)
	}()

	<-entered // the slow update has taken its ticket and is in flight
	require.NoError(t, s.UpdateQuantity(context.Background(), "p1", 5))

	close(release)
	require.NoError(t, <-done)

	require.Equal(t, 5, s.Lines()[0].Quantity, "stale response must not win")
}

func TestAdd_StaleRefreshDiscarded(t *testing.T) {
	// The refetch triggered by an earlier add resolves after a later add's
	// refetch and must be ignored.
	stale := []models.CartLine{line("p1", 1000, 1)}
	fresh := []models.CartLine{line("p1", 1000, 1), line("p2", 500, 1)}

	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	var mu sync.Mutex

	client := &fakeClient{}
	client.cartFn = func(ctx context.Context) ([]models.CartLine, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			close(entered)
			<-release
			return stale, nil
		}
		return fresh, nil
	}
	s := NewSynchronizer(client, authed, logging.Discard())

	done := make(chan error, 1)
	go func() {
		done <- s.Add(context.Background(), models.Product{ID: "p1", Price: 1000}, 1)
	}()

	<-entered // first add's refetch is in flight
	require.NoError(t, s.Add(context.Background(), models.Product{ID: "p2", Price: 500}, 1))

	close(release)
	require.NoError(t, <-done)

	require.Equal(t, fresh, s.Lines())
}

func TestTotals(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{
		line("a", 1000, 2), line("b", 500, 1),
	})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	// round(1000*0.9)*2 + round(500*0.9)*1 = 900*2 + 450
	require.Equal(t, int64(2250), s.Total())
	require.InDelta(t, 2250.0, s.FullPrecisionTotal(), 1e-9)
}

func TestTotals_RoundingPoliciesDiverge(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("a", 999.4, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	// per-line: round(899.46) = 899, times 2
	require.Equal(t, int64(1798), s.Total())
	// full precision keeps the fraction
	require.InDelta(t, 1798.92, s.FullPrecisionTotal(), 1e-9)
}

func TestClear(t *testing.T) {
	client := &fakeClient{cartFn: staticCart([]models.CartLine{line("p1", 1000, 2)})}
	s := NewSynchronizer(client, authed, logging.Discard())
	require.NoError(t, s.Refresh(context.Background()))

	s.Clear()
	require.Zero(t, s.Count())
	require.Zero(t, s.Total())
}
