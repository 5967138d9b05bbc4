package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// Roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is the authenticated principal built from token claims.
// Accounts themselves are managed by the auth service.
type User struct {
	ID    string `json:"id"` // UUID
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the user may change store configuration.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
