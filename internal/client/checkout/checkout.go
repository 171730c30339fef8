// Package checkout drives the linear purchase flow: cart, shipping details,
// payment, confirmation. Each step gates the next; only a verified payment
// clears the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/cart"
	"github.com/kolamstudio/shopengine/internal/common"
	"github.com/kolamstudio/shopengine/internal/logging"
)

// Step identifies where the flow currently stands.
type Step int

const (
	StepCart Step = iota
	StepShipping
	StepPayment
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to check out")
	ErrIllegalStep      = errors.New("operation not allowed at this checkout step")
	ErrAttemptResolved  = errors.New("payment attempt already resolved")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrPaymentCancelled = errors.New("payment cancelled")
)

// Draft holds the shipping form for the duration of the checkout step. It is
// discarded on navigation away and on successful submission.
type Draft struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Address string `validate:"required"`
	City    string `validate:"required"`
	State   string `validate:"required"`
	Zip     string `validate:"required"`
}

// OutcomeKind tags the gateway's terminal report for one attempt.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeCancelled
	OutcomeFailed
)

// Outcome is the gateway's terminal report. A success carries the gateway's
// proof, which the backend re-verifies before anything is trusted.
type Outcome struct {
	Kind      OutcomeKind
	PaymentID string
	Signature string
}

func Success(paymentID, signature string) Outcome {
	return Outcome{Kind: OutcomeSuccess, PaymentID: paymentID, Signature: signature}
}

func Cancelled() Outcome { return Outcome{Kind: OutcomeCancelled} }
func Failed() Outcome    { return Outcome{Kind: OutcomeFailed} }

// PaymentAttempt is one pass through the external gateway for a fixed
// amount. Its outcome is terminal: Resolve consumes it exactly once, and a
// retry means a fresh attempt via StartPayment.
type PaymentAttempt struct {
	ID       string // client-side attempt id
	OrderID  string // gateway order handle the widget charges against
	Amount   int64  // minor currency units
	Currency string

	resolved bool
}

// Orchestrator owns the flow state. It is not safe for concurrent use; the
// engine assumes one checkout per session.
type Orchestrator struct {
	client   api.Client
	cart     *cart.Synchronizer
	log      logging.Logger
	validate *validator.Validate

	step  Step
	draft *Draft
}

func NewOrchestrator(client api.Client, c *cart.Synchronizer, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		cart:     c,
		log:      log,
		validate: validator.New(),
		step:     StepCart,
	}
}

func (o *Orchestrator) Step() Step { return o.step }

// Begin enters the shipping step. With an empty cart there is nothing to
// check out and the caller should send the user back to the catalog.
func (o *Orchestrator) Begin() error {
	if o.cart.Count() == 0 {
		return ErrEmptyCart
	}
	o.step = StepShipping
	return nil
}

// SubmitShipping validates the draft and advances to payment. A draft with
// any empty field fails validation and the flow does not advance; the
// caller may correct and resubmit.
func (o *Orchestrator) SubmitShipping(draft Draft) error {
	if o.step != StepShipping {
		return ErrIllegalStep
	}
	if err := o.validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is required", common.ErrValidation, strings.ToLower(verrs[0].Field()))
		}
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	o.draft = &draft
	o.step = StepPayment
	return nil
}

// StartPayment asks the backend for a gateway order handle covering the
// cart's discounted total, in minor currency units. The caller hands the
// returned attempt to the external payment widget.
func (o *Orchestrator) StartPayment(ctx context.Context) (*PaymentAttempt, error) {
	if o.step != StepPayment {
		return nil, ErrIllegalStep
	}
	amount := o.cart.Total() * 100
	if amount == 0 {
		return nil, ErrEmptyCart
	}

	order, err := o.client.CreatePaymentOrder(ctx, amount, o.draft.Email)
	if err != nil {
		return nil, fmt.Errorf("creating payment order: %w", err)
	}

	attempt := &PaymentAttempt{
		ID:       uuid.NewString(),
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}
	o.log.Info(ctx, "payment order created",
		"attempt", attempt.ID, "order", attempt.OrderID, "amount", attempt.Amount)
	return attempt, nil
}

// Resolve consumes the gateway's terminal outcome for the attempt. Only a
// success that the backend verifies clears the cart (server side first,
// then local) and completes the flow. Cancellation, failure and rejected
// verification leave the cart and the shipping details in place, so the
// user can retry from the payment step.
func (o *Orchestrator) Resolve(ctx context.Context, attempt *PaymentAttempt, outcome Outcome) error {
	if o.step != StepPayment {
		return ErrIllegalStep
	}
	if attempt.resolved {
		return ErrAttemptResolved
	}
	attempt.resolved = true

	switch outcome.Kind {
	case OutcomeCancelled:
		o.log.Info(ctx, "payment cancelled", "attempt", attempt.ID)
		return ErrPaymentCancelled
	case OutcomeFailed:
		o.log.Warn(ctx, "payment failed", "attempt", attempt.ID, "order", attempt.OrderID)
		return ErrPaymentFailed
	case OutcomeSuccess:
		// verified below
	default:
		return fmt.Errorf("unknown payment outcome %d", outcome.Kind)
	}

	err := o.client.VerifyPayment(ctx, api.VerifyPaymentRequest{
		PaymentID: outcome.PaymentID,
		OrderID:   attempt.OrderID,
		Signature: outcome.Signature,
		Email:     o.draft.Email,
	})
	if err != nil {
		o.log.Warn(ctx, "payment verification rejected", "attempt", attempt.ID, "error", err)
		return fmt.Errorf("%w: %s", ErrPaymentFailed, err)
	}

	if err := o.client.Checkout(ctx); err != nil {
		// The charge is already verified; a stale server cart must not block
		// the confirmation.
		o.log.Error(ctx, "clearing server cart after payment", "error", err)
	}
	o.cart.Clear()
	o.draft = nil
	o.step = StepConfirmed
	o.log.Info(ctx, "order confirmed", "attempt", attempt.ID)
	return nil
}

// Abandon leaves the flow, discarding the shipping draft. The cart is
// untouched.
func (o *Orchestrator) Abandon() {
	o.draft = nil
	o.step = StepCart
}

// Reset prepares the orchestrator for a new order after a confirmation.
func (o *Orchestrator) Reset() {
	o.Abandon()
}
