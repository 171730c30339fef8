// Package api defines the REST surface of the shop backend and its HTTP
// implementation. No other component talks to the network directly.
package api

import (
	"context"

	"github.com/kolamstudio/shopengine/internal/client/models"
)

// Client is the transport the engine components are built on.
//
// Implementations own the bearer token: the session layer installs it via
// SetToken after login and removes it via ClearToken on logout. Login itself
// does not install the token, so a failed credential persistence path cannot
// leave the transport half-authenticated.
type Client interface {
	Products(ctx context.Context) ([]models.Product, error)
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, fullName, email, password string) (string, error)

	Cart(ctx context.Context) ([]models.CartLine, error)
	AddToCart(ctx context.Context, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error

	Checkout(ctx context.Context) error
	CreatePaymentOrder(ctx context.Context, amount int64, email string) (*PaymentOrder, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error

	SetToken(token string)
	ClearToken()
	Token() string
}

// AuthRejectionNotifier is implemented by transports that report token
// rejections as they happen. The owner registers a callback that runs the
// logout cleanup, so a dead token is handled identically no matter which
// operation hit it.
type AuthRejectionNotifier interface {
	OnAuthRejected(fn func(ctx context.Context))
}

// LoginResult carries the token and user returned by POST /api/login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// PaymentOrder is the gateway order handle issued by the payment backend.
// The client hands it to the external payment widget to initiate a charge.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// VerifyPaymentRequest forwards the gateway's proof of payment for
// server-side signature verification. Field names follow the gateway's
// wire contract.
type VerifyPaymentRequest struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
	Email     string `json:"email,omitempty"`
}
