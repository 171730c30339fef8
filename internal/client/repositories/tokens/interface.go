// Package tokens persists the bearer token across process restarts.
package tokens

import "context"

// Repository stores the single persisted credential. Load returns an empty
// string, not an error, when no token has been saved.
type Repository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
