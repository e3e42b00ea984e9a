package domain

// Role represents the user's permission level in the system.
// Values mirror the seeded rows in the roles table.
type Role int

const (
	// RoleUser grants standard authenticated access.
	RoleUser Role = 1
	// RoleModerator grants review moderation rights on top of RoleUser.
	RoleModerator Role = 2
	// RoleAdmin grants full catalog management access.
	RoleAdmin Role = 3
)

// String returns the role name as stored in the roles table.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleModerator:
		return "MODERATOR"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether the role is one of the three seeded roles.
func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleAdmin
}

// User represents an authenticated user account.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Stored hashed, never serialized
	Role         Role   `json:"role"`
	IsVerified   bool   `json:"is_verified"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanModerate returns true if the user may remove other users' reviews.
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// Summary returns the nested user document embedded in review views.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

// UserSummary is the minimal user document nested inside other views.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
