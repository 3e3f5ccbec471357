package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// Token lifetimes are fixed policy, not configuration.
const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService implements registration, login and refresh.
type AuthService struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	tenants ports.TenantRepository
	codec   ports.TokenCodec
	hasher  ports.PasswordHasher

	// rotateRefresh mints a fresh refresh token on every refresh call.
	// Without a revocation list rotation is best-effort hardening only.
	rotateRefresh bool

	log zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	tenants ports.TenantRepository,
	codec ports.TokenCodec,
	hasher ports.PasswordHasher,
	rotateRefresh bool,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		roles:         roles,
		tenants:       tenants,
		codec:         codec,
		hasher:        hasher,
		rotateRefresh: rotateRefresh,
		log:           log,
	}
}

// Register creates a user, hashing the password and assigning the role. The
// very first user in the system becomes super_admin regardless of input;
// everyone after that starts as a plain user. When input.Tenant is set the
// tenant is created atomically with the user in the same transaction.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, domain.Role, error) {
	if input.Username == "" || input.Email == "" || input.Phone == "" || input.Password == "" {
		return nil, "", domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", err
	}

	roleID, role, err := s.pickRole(ctx)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		RoleID:       roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var tenant *domain.Tenant
	if input.Tenant != nil {
		tenant = &domain.Tenant{
			ID:        uuid.NewString(),
			Name:      input.Tenant.Name,
			Host:      input.Tenant.Host,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	created, err := s.users.Create(ctx, user, tenant)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("role", string(role)).
		Bool("tenant_created", tenant != nil).
		Msg("user registered")
	return created, role, nil
}

// pickRole returns super_admin when no super_admin user exists yet.
func (s *AuthService) pickRole(ctx context.Context) (string, domain.Role, error) {
	super, err := s.roles.FindByName(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return "", "", err
	}
	n, err := s.users.CountByRoleID(ctx, super.ID)
	if err != nil {
		return "", "", err
	}
	if n == 0 {
		return super.ID, domain.RoleSuperAdmin, nil
	}

	user, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return "", "", err
	}
	return user.ID, domain.RoleUser, nil
}

// Login authenticates by email and password and issues both tokens. A user
// without a tenant cannot log in until one is created.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn().Str("user_id", user.ID).Msg("login rejected: password mismatch")
		return nil, domain.ErrWrongPassword
	}

	if user.TenantID == "" {
		return nil, domain.ErrTenantRequired
	}
	tenant, err := s.tenants.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.issueTokens(user.ID, tenant.Host, tenant.ID, role.Name)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		UserID:       user.ID,
		Host:         tenant.Host,
		Role:         role.Name,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		TokenMaxAge:  int64(AccessTokenTTL.Seconds()),
	}, nil
}

// Refresh verifies the presented refresh token and mints a new access token
// carrying the same identity claims. The refresh token itself is reused
// unless rotation is enabled.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	access, err := s.codec.Encode(newClaims(claims.Subject, claims.Host, claims.TenantID, claims.Role), AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshOut := refreshToken
	if s.rotateRefresh {
		refreshOut, err = s.codec.Encode(newClaims(claims.Subject, claims.Host, claims.TenantID, claims.Role), RefreshTokenTTL)
		if err != nil {
			return nil, err
		}
	}

	return &ports.AuthResult{
		UserID:       claims.Subject,
		Host:         claims.Host,
		Role:         claims.Role,
		AccessToken:  access,
		RefreshToken: refreshOut,
		TokenType:    "Bearer",
		TokenMaxAge:  int64(AccessTokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) issueTokens(userID, host, tenantID string, role domain.Role) (access, refresh string, err error) {
	access, err = s.codec.Encode(newClaims(userID, host, tenantID, role), AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.codec.Encode(newClaims(userID, host, tenantID, role), RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// newClaims builds a fresh claim set per token; Encode mutates iat/exp so
// claims are never shared between the access and refresh tokens.
func newClaims(userID, host, tenantID string, role domain.Role) *domain.Claims {
	return &domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Host:             host,
		TenantID:         tenantID,
		Role:             role,
	}
}
