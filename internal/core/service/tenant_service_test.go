package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

func seedUser(t *testing.T, users *stubUserRepo, id, tenantID string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := users.Create(context.Background(), &domain.User{
		ID:        id,
		Username:  id,
		Email:     id + "@x.com",
		Phone:     "+" + id,
		RoleID:    "role-user",
		TenantID:  tenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if tenantID != "" {
		if err := users.AttachTenant(context.Background(), id, tenantID); err != nil {
			t.Fatalf("attach tenant: %v", err)
		}
	}
}

func TestTenantService_CreateLinksOwner(t *testing.T) {
	tenants := newStubTenantRepo()
	users := newStubUserRepo(tenants)
	svc := NewTenantService(tenants, users, zerolog.Nop())
	ctx := context.Background()

	seedUser(t, users, "user-1", "")

	tenant, err := svc.Create(ctx, domain.Identity{UserID: "user-1", Role: domain.RoleSuperAdmin}, ports.TenantInput{Name: "Acme", Host: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !tenant.IsActive {
		t.Fatalf("new domain must be active")
	}

	owner, err := users.FindByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("find owner: %v", err)
	}
	if owner.TenantID != tenant.ID {
		t.Fatalf("owner not linked to domain")
	}
}

func TestTenantService_OneDomainPerUser(t *testing.T) {
	tenants := newStubTenantRepo()
	users := newStubUserRepo(tenants)
	svc := NewTenantService(tenants, users, zerolog.Nop())
	ctx := context.Background()

	seedUser(t, users, "user-1", "")
	if _, err := svc.Create(ctx, domain.Identity{UserID: "user-1"}, ports.TenantInput{Name: "Acme", Host: "acme"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// The one-tenant rule is checked against the persisted user, so even a
	// token minted before the first create cannot bypass it.
	_, err := svc.Create(ctx, domain.Identity{UserID: "user-1"}, ports.TenantInput{Name: "Beta", Host: "beta"})
	if !errors.Is(err, domain.ErrTenantOwned) {
		t.Fatalf("expected one-domain denial, got %v", err)
	}

	// A token already carrying a domain is denied before any lookup.
	_, err = svc.Create(ctx, domain.Identity{UserID: "ghost", TenantID: "tenant-x"}, ports.TenantInput{Name: "Gamma", Host: "gamma"})
	if !errors.Is(err, domain.ErrTenantOwned) {
		t.Fatalf("expected one-domain denial from token, got %v", err)
	}
}

func TestTenantService_FailedOwnerLinkFreesHost(t *testing.T) {
	tenants := newStubTenantRepo()
	users := newStubUserRepo(tenants)
	svc := NewTenantService(tenants, users, zerolog.Nop())
	ctx := context.Background()

	seedUser(t, users, "user-1", "")

	tenants.linkErr = errors.New("connection reset by peer")
	if _, err := svc.Create(ctx, domain.Identity{UserID: "user-1"}, ports.TenantInput{Name: "Acme", Host: "acme"}); err == nil {
		t.Fatalf("expected create to fail")
	}

	// The failed attempt must not leave a row claiming the host; the same
	// user retrying the same host has to succeed.
	tenants.linkErr = nil
	tenant, err := svc.Create(ctx, domain.Identity{UserID: "user-1"}, ports.TenantInput{Name: "Acme", Host: "acme"})
	if err != nil {
		t.Fatalf("retry with same host: %v", err)
	}
	owner, err := users.FindByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("find owner: %v", err)
	}
	if owner.TenantID != tenant.ID {
		t.Fatalf("owner not linked after retry")
	}
}

func TestTenantService_DuplicateHost(t *testing.T) {
	tenants := newStubTenantRepo()
	users := newStubUserRepo(tenants)
	svc := NewTenantService(tenants, users, zerolog.Nop())
	ctx := context.Background()

	seedUser(t, users, "user-1", "")
	seedUser(t, users, "user-2", "")

	if _, err := svc.Create(ctx, domain.Identity{UserID: "user-1"}, ports.TenantInput{Name: "Acme", Host: "acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, domain.Identity{UserID: "user-2"}, ports.TenantInput{Name: "Other", Host: "acme"})
	if field, ok := domain.IsDuplicateField(err); !ok || field != "host" {
		t.Fatalf("expected duplicate host error, got %v", err)
	}
}

func TestTenantService_UnknownUser(t *testing.T) {
	tenants := newStubTenantRepo()
	users := newStubUserRepo(tenants)
	svc := NewTenantService(tenants, users, zerolog.Nop())

	_, err := svc.Create(context.Background(), domain.Identity{UserID: "ghost"}, ports.TenantInput{Name: "Acme", Host: "acme"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
