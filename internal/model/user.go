package model

import "time"

// Roles carried in the access token "role" claim.
const (
    RoleOwner    = "OWNER"
    RoleCustomer = "CUSTOMER"
)

// User mirrors a row of the `users` table.  Owners register a restaurant,
// customers book tables.
type User struct {
    ID           uint64    `db:"id" json:"id"`
    Email        string    `db:"email" json:"email"`
    Name         string    `db:"name" json:"name"`
    PasswordHash string    `db:"password_hash" json:"-"`
    Role         string    `db:"role" json:"role"`
    IsActive     bool      `db:"is_active" json:"is_active"`
    CreatedAt    time.Time `db:"created_at" json:"created_at"`
    UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
    ID        uint64     `db:"id"`
    UserID    uint64     `db:"user_id"`
    TokenHash string     `db:"token_hash"`
    ExpiresAt time.Time  `db:"expires_at"`
    RevokedAt *time.Time `db:"revoked_at"`
    CreatedAt time.Time  `db:"created_at"`
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
    UserID uint64
    Role   string
}

func (a Actor) IsOwner() bool    { return a.Role == RoleOwner }
func (a Actor) IsCustomer() bool { return a.Role == RoleCustomer }
