package domain

import (
	"encoding/json"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models a storefront account. PasswordHash never leaves the backend.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SessionUser is what the client persists under the "user" key: the
// account without credentials plus the bearer token issued at login.
type SessionUser struct {
	User
	Token string `json:"token,omitempty"`
}

// ParseSessionUser decodes the persisted session blob. A blank or
// malformed blob yields ok=false.
func ParseSessionUser(raw string) (SessionUser, bool) {
	if raw == "" || raw == "null" || raw == "undefined" {
		return SessionUser{}, false
	}
	var su SessionUser
	if err := json.Unmarshal([]byte(raw), &su); err != nil || su.ID == "" {
		return SessionUser{}, false
	}
	return su, true
}

// Encode serializes the session user for local persistence.
func (su SessionUser) Encode() (string, error) {
	b, err := json.Marshal(su)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
