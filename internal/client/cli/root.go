package cli

import (
	"context"
	"fmt"
)

// Root runs the interactive loop until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	printlnFn("Kolam shop. Type 'help' for a list of commands.")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// getStatus builds the prompt fragment: the logged-in user's email and the
// number of cart lines, or "guest" when no session is active.
func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "[guest]"
	}
	u := a.shop.User()
	return fmt.Sprintf("[%s, cart: %d]", u.Email, a.shop.CartCount())
}
