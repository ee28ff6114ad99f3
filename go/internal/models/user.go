package models

// Role defines what mutating actions a signed-in user may be offered.
// The role gates UI affordances only; the backend enforces authorisation.
type Role string

const (
	RoleBidder Role = "bidder"
	RoleNGO    Role = "ngo"
	RoleAdmin  Role = "admin"
)

// User is the minimal signed-in profile kept client-side.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
