package models

import "time"

// Role determines which dashboard a user lands on and which
// operations the backend permits.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleTeam   Role = "team"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleTeam:
		return true
	}
	return false
}

// User is the account record as reported by the backend.
//
// IsTemporaryAdmin and TemporaryAdminExpiry are advisory: the backend
// grants and revokes elevated access, the client only displays them
// and never enforces the expiry locally.
type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Name                 string     `json:"name"`
	Role                 Role       `json:"role"`
	Avatar               string     `json:"avatar,omitempty"`
	IsTemporaryAdmin     bool       `json:"isTemporaryAdmin,omitempty"`
	TemporaryAdminExpiry *time.Time `json:"temporaryAdminExpiry,omitempty"`
	TwoFactorEnabled     bool       `json:"twoFactorEnabled,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// UserPatch is a partial update of the mutable profile fields.
// Nil fields are left untouched.
type UserPatch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

// TeamMember is the lightweight directory entry returned by /team.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
