package domain

import "time"

// User models an account holder. Email, username and phone are globally
// unique; a user belongs to at most one tenant and holds exactly one role.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"-"`
	TenantID     string    `json:"domain_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
