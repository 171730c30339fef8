// Package models defines the data shapes the shop backend exchanges with
// this client. All types here are plain snapshots; ownership and lifecycle
// rules live in the components that hold them.
package models

// User is the authenticated account as returned by the backend. At most one
// User is active at a time; the session store owns it.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}
