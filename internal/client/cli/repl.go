package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Products(ctx context.Context) error
	ShowCart(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Quantity(ctx context.Context, args []string) error
	Checkout(ctx context.Context) error
}

// runREPL reads a line from reader, parses the first token as the command,
// and dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on EOF or on "exit"/"quit". Errors from command
// handlers are ignored here; handlers print their own feedback.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shop %s>", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (p)roducts, cart, add <n> [qty], remove <n>, qty <n> <count>, checkout, logout, exit")
			} else {
				printlnFn("Available commands: (p)roducts, cart, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "p", "products":
			_ = a.Products(ctx)

		case "cart":
			_ = a.ShowCart(ctx)

		case "add":
			_ = a.Add(ctx, args)

		case "remove":
			_ = a.Remove(ctx, args)

		case "qty":
			_ = a.Quantity(ctx, args)

		case "checkout":
			_ = a.Checkout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
