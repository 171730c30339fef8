package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/kolamstudio/shopengine/internal/client/checkout"
)

// Checkout walks the whole flow in one interactive pass: shipping form,
// payment order, simulated gateway prompt, resolution.
func (a *App) Checkout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please 'login' before checking out.")
		return nil
	}
	if err := a.shop.BeginCheckout(); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			printlnFn("Your cart is empty.")
			return nil
		}
		printlnFn("Cannot start checkout:", err.Error())
		return err
	}

	draft, err := a.collectShipping()
	if err != nil {
		a.shop.AbandonCheckout()
		return err
	}
	if err := a.shop.SubmitShipping(*draft); err != nil {
		printlnFn("Shipping details rejected:", err.Error())
		a.shop.AbandonCheckout()
		return nil
	}

	attempt, err := a.shop.StartPayment(ctx)
	if err != nil {
		printlnFn("Could not create payment order:", err.Error())
		a.shop.AbandonCheckout()
		return nil
	}
	printlnFn(fmt.Sprintf("Payment order %s for ₹%d.%02d created.",
		attempt.OrderID, attempt.Amount/100, attempt.Amount%100))

	outcome, err := a.gatewayPrompt()
	if err != nil {
		a.shop.AbandonCheckout()
		return err
	}

	if err := a.shop.ResolvePayment(ctx, attempt, outcome); err != nil {
		switch {
		case errors.Is(err, checkout.ErrPaymentCancelled):
			printlnFn("Payment cancelled. Your cart is untouched; run 'checkout' to retry.")
		case errors.Is(err, checkout.ErrPaymentFailed):
			printlnFn("Payment failed:", err.Error())
			printlnFn("Your cart is untouched; run 'checkout' to retry.")
		default:
			printlnFn("Checkout error:", err.Error())
		}
		a.shop.AbandonCheckout()
		return nil
	}

	printlnFn("Order placed. Thank you!")
	a.shop.ResetCheckout()
	return nil
}

func (a *App) collectShipping() (*checkout.Draft, error) {
	d := &checkout.Draft{}
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Full name:", &d.Name},
		{"Email:", &d.Email},
		{"Address:", &d.Address},
		{"City:", &d.City},
		{"State:", &d.State},
		{"ZIP code:", &d.Zip},
	} {
		v, err := GetSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	return d, nil
}

// gatewayPrompt stands in for the hosted payment widget: the user reports
// what the gateway would have reported.
func (a *App) gatewayPrompt() (checkout.Outcome, error) {
	answer, err := GetSimpleText(a.reader, "Simulate gateway result [s]uccess / [c]ancel / [f]ail:", os.Stdout)
	if err != nil {
		return checkout.Outcome{}, err
	}
	switch answer {
	case "s", "success":
		return checkout.Success(uuid.NewString(), uuid.NewString()), nil
	case "c", "cancel":
		return checkout.Cancelled(), nil
	default:
		return checkout.Failed(), nil
	}
}
