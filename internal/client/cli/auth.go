package cli

import (
	"context"
	"os"
)

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in. Use 'logout' first.")
		return nil
	}

	email, err := GetSimpleText(a.reader, "Enter email:", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	res := a.shop.Login(ctx, email, password)
	if !res.OK {
		printlnFn("Login failed:", res.Message)
		return nil
	}
	printlnFn("Welcome,", res.User.FullName)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	fullName, err := GetSimpleText(a.reader, "Enter full name:", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email:", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	res := a.shop.Register(ctx, fullName, email, password)
	if !res.OK {
		printlnFn("Registration failed:", res.Message)
		return nil
	}
	printlnFn("Account created. Use 'login' to sign in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}
	a.shop.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
