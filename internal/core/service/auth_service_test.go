package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

func newAuthFixture(t *testing.T, rotate bool) (*AuthService, *stubUserRepo, *stubTenantRepo, *TokenService) {
	t.Helper()
	codec, err := NewTokenService("test-secret", "HS256")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	tenants := newStubTenantRepo()
	users := newStubUserRepo(tenants)
	svc := NewAuthService(users, newStubRoleRepo(), tenants, codec, NewBcryptHasher(), rotate, zerolog.Nop())
	return svc, users, tenants, codec
}

func registerInput(email, username string) ports.RegisterInput {
	return ports.RegisterInput{
		Username: username,
		Email:    email,
		Phone:    "+" + username,
		Password: "secret1",
	}
}

func TestRegister_FirstUserBecomesSuperAdmin(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)
	ctx := context.Background()

	_, role, err := svc.Register(ctx, registerInput("ann@x.com", "ann"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if role != domain.RoleSuperAdmin {
		t.Fatalf("first user must be super_admin, got %s", role)
	}

	_, role, err = svc.Register(ctx, registerInput("bob@x.com", "bob"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if role != domain.RoleUser {
		t.Fatalf("second user must be plain user, got %s", role)
	}
}

func TestRegister_WithDomainIsAtomic(t *testing.T) {
	svc, users, tenants, _ := newAuthFixture(t, false)
	ctx := context.Background()

	input := registerInput("ann@x.com", "ann")
	input.Tenant = &ports.TenantInput{Name: "Acme", Host: "acme"}

	user, _, err := svc.Register(ctx, input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.TenantID == "" {
		t.Fatalf("user must be linked to the new domain")
	}
	tenant, err := tenants.FindByID(ctx, user.TenantID)
	if err != nil {
		t.Fatalf("domain not persisted: %v", err)
	}
	if tenant.Host != "acme" {
		t.Fatalf("unexpected host %q", tenant.Host)
	}

	// Same host again: the domain conflict must leave no partial user row.
	second := registerInput("bob@x.com", "bob")
	second.Tenant = &ports.TenantInput{Name: "Acme 2", Host: "acme"}
	if _, _, err := svc.Register(ctx, second); err == nil {
		t.Fatalf("duplicate host must fail")
	}
	if _, err := users.FindByEmail(ctx, "bob@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("failed registration must not persist the user")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput("ann@x.com", "ann")); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Register(ctx, registerInput("ann@x.com", "other"))
	field, ok := domain.IsDuplicateField(err)
	if !ok || field != "email" {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)

	input := registerInput("ann@x.com", "ann")
	input.Password = ""
	if _, _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestLogin_IssuesTokensWithClaims(t *testing.T) {
	svc, _, _, codec := newAuthFixture(t, false)
	ctx := context.Background()

	input := registerInput("ann@x.com", "ann")
	input.Tenant = &ports.TenantInput{Name: "Acme", Host: "acme"}
	user, _, err := svc.Register(ctx, input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(ctx, "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.UserID != user.ID || result.Host != "acme" || result.Role != domain.RoleSuperAdmin {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.TokenType != "Bearer" || result.TokenMaxAge != int64(AccessTokenTTL.Seconds()) {
		t.Fatalf("unexpected token metadata: %+v", result)
	}

	claims, err := codec.Decode(result.AccessToken)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Subject != user.ID || claims.TenantID != user.TenantID || claims.Role != domain.RoleSuperAdmin || claims.Host != "acme" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := codec.Decode(result.RefreshToken); err != nil {
		t.Fatalf("refresh token does not verify: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)
	ctx := context.Background()

	input := registerInput("ann@x.com", "ann")
	input.Tenant = &ports.TenantInput{Name: "Acme", Host: "acme"}
	if _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "ann@x.com", "wrong"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected wrong password, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)
	if _, err := svc.Login(context.Background(), "nobody@x.com", "secret1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_RequiresDomain(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput("ann@x.com", "ann")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "ann@x.com", "secret1"); !errors.Is(err, domain.ErrTenantRequired) {
		t.Fatalf("expected domain-required error, got %v", err)
	}
}

func TestRefresh_ReusesTokenByDefault(t *testing.T) {
	svc, _, _, codec := newAuthFixture(t, false)
	ctx := context.Background()

	input := registerInput("ann@x.com", "ann")
	input.Tenant = &ports.TenantInput{Name: "Acme", Host: "acme"}
	if _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken != login.RefreshToken {
		t.Fatalf("refresh token must be reused when rotation is off")
	}

	claims, err := codec.Decode(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("new access token does not verify: %v", err)
	}
	if claims.Subject != login.UserID || claims.Role != domain.RoleSuperAdmin {
		t.Fatalf("refresh must preserve identity claims: %+v", claims)
	}
}

func TestRefresh_RotationEnabled(t *testing.T) {
	svc, _, _, codec := newAuthFixture(t, true)
	ctx := context.Background()

	input := registerInput("ann@x.com", "ann")
	input.Tenant = &ports.TenantInput{Name: "Acme", Host: "acme"}
	if _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := codec.Decode(refreshed.RefreshToken)
	if err != nil {
		t.Fatalf("rotated refresh token does not verify: %v", err)
	}
	if claims.Subject != login.UserID {
		t.Fatalf("rotated token must carry the same subject")
	}
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)
	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
