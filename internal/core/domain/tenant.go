package domain

import "time"

// Tenant is a host-scoped namespace owning apps and users. The API calls it
// a "domain". The host is globally unique.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	URL       string    `json:"url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
