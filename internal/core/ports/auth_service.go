package ports

import (
	"context"
	"time"

	"github.com/quillcms/quill/internal/core/domain"
)

// TokenCodec encodes and decodes signed claim sets. Encode always stamps an
// absolute expiry; Decode distinguishes expired, tampered and malformed
// tokens via domain.ErrToken* sentinels.
type TokenCodec interface {
	Encode(claims *domain.Claims, ttl time.Duration) (string, error)
	Decode(token string) (*domain.Claims, error)
}

// PasswordHasher is the credential verifier. Verify returns false for a
// wrong password, never an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// RegisterInput carries a registration request. Tenant is optional; when
// present it is created atomically with the user.
type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
	Tenant   *TenantInput
}

// TenantInput carries new-tenant data.
type TenantInput struct {
	Name string
	Host string
}

// AuthResult is the payload returned by login and refresh.
type AuthResult struct {
	UserID       string
	Host         string
	Role         domain.Role
	AccessToken  string
	RefreshToken string
	TokenType    string
	TokenMaxAge  int64
}

// AuthService implements registration, login and token refresh. Register
// also reports the role that was granted, which may differ from any
// requested role (the first user is always super_admin).
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, domain.Role, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}
