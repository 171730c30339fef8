// Package session owns the authentication state: the current user, the
// bearer token on the transport, and the persisted copy of that token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/client/repositories/tokens"
	"github.com/kolamstudio/shopengine/internal/common"
	"github.com/kolamstudio/shopengine/internal/logging"
)

// Store is the process-scoped session state. Lifecycle: Restore on startup,
// Login/Register/Logout on user action. Exactly one user is active at a
// time, or none.
type Store struct {
	client api.Client
	tokens tokens.Repository
	log    logging.Logger

	user *models.User

	// onLogin runs after a successful login or restore, so the owner can
	// refresh state that depends on the authenticated user (the cart).
	onLogin func(ctx context.Context)
}

func NewStore(client api.Client, repo tokens.Repository, log logging.Logger) *Store {
	return &Store{client: client, tokens: repo, log: log}
}

func (s *Store) OnLogin(fn func(ctx context.Context)) { s.onLogin = fn }

// User returns the active user, or nil when unauthenticated.
func (s *Store) User() *models.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool { return s.user != nil }

// Result reports a login or registration outcome to the UI. Failures are
// carried as a message, never thrown: the transport errors stop here.
type Result struct {
	OK      bool
	User    *models.User
	Message string
}

// Login authenticates with the backend. On success the token is installed
// on the transport, persisted, and the onLogin hook fires.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", email, "error", err)
		return Result{Message: failureMessage(err, "Login failed")}
	}

	s.client.SetToken(res.AccessToken)
	if err := s.tokens.Save(ctx, res.AccessToken); err != nil {
		// The session still works for this process; it just won't survive
		// a restart.
		s.log.Error(ctx, "persisting token", "error", err)
	}

	u := res.User
	s.user = &u
	s.log.Info(ctx, "logged in", "email", u.Email)

	if s.onLogin != nil {
		s.onLogin(ctx)
	}
	return Result{OK: true, User: &u}
}

// Register creates a new account. It does not authenticate it; the user
// logs in separately afterwards.
func (s *Store) Register(ctx context.Context, fullName, email, password string) Result {
	msg, err := s.client.Register(ctx, fullName, email, password)
	if err != nil {
		s.log.Warn(ctx, "registration failed", "email", email, "error", err)
		return Result{Message: failureMessage(err, "Registration failed")}
	}
	return Result{OK: true, Message: msg}
}

// Logout drops the persisted token, the transport token and the current
// user. It needs no network call and is idempotent.
func (s *Store) Logout(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "clearing persisted token", "error", err)
	}
	s.client.ClearToken()
	s.user = nil
}

// Restore resolves the current user from a previously persisted token.
// An expired token is discarded without a network call; a rejected or
// unresolvable one is discarded after the attempt. Either way the process
// starts unauthenticated and nothing surfaces to the UI beyond a log line.
func (s *Store) Restore(ctx context.Context) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "loading persisted token", "error", err)
		return
	}
	if token == "" {
		return
	}

	if tokenExpired(token) {
		s.log.Info(ctx, "persisted token expired, discarding")
		s.Logout(ctx)
		return
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "session restore failed", "error", err)
		s.Logout(ctx)
		return
	}

	s.user = user
	s.log.Info(ctx, "session restored", "email", user.Email)

	if s.onLogin != nil {
		s.onLogin(ctx)
	}
}

// tokenExpired reports whether the token carries an exp claim in the past.
// The signature is not checked: the backend stays the authority, and a false
// negative only costs one rejected request.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// failureMessage picks the user-facing text for a failed call: the backend's
// own message when one exists, the generic fallback for transport problems.
func failureMessage(err error, fallback string) string {
	if errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrAuthRejected) {
		return fallback
	}
	return err.Error()
}
