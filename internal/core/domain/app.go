package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// App is a resource container owned by one tenant. Users are attached
// through a membership list; content and media hang off the app.
type App struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	IsActive  bool      `json:"is_active"`
	TenantID  string    `json:"domain_id"`
	MemberIDs []string  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAppSecret returns a 64-character hex secret for server-to-server
// access to an app's content.
func NewAppSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
