// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is a user's assigned role. Roles are a closed set so authorization
// can switch on them instead of comparing free strings.
//
// RoleUnset is the zero value and means "no role assigned yet"; a user who
// signed in but was never granted anything. Callers must treat it as least
// privilege, never as an error.
type Role string

const (
	RoleUnset   Role = ""
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a client-supplied string to a known Role.
// Returns (RoleUnset, false) for anything outside the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleManager, RoleAdmin:
		return Role(s), true
	}
	return RoleUnset, false
}

// User represents a registered account.
//
// Email is the natural key; the identity provider authenticates by email, so
// every collection that references a person stores the email, not an internal
// id. Users are created on first sign-in (upsert-if-absent) and never deleted
// by this system.
type User struct {
	Email     string    `json:"email"     bson:"email"`
	Name      string    `json:"name"      bson:"name,omitempty"`
	PhotoURL  string    `json:"photoUrl"  bson:"photoUrl,omitempty"`
	Role      Role      `json:"role"      bson:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
