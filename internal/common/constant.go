package common

// TokenKey is the well-known key the persisted bearer token is stored under.
// It survives restarts and is cleared on logout or on any token rejection.
const TokenKey = "token"
