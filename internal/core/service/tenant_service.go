package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// TenantService creates tenants. A user may own at most one tenant.
type TenantService struct {
	tenants ports.TenantRepository
	users   ports.UserRepository
	log     zerolog.Logger
}

func NewTenantService(tenants ports.TenantRepository, users ports.UserRepository, log zerolog.Logger) *TenantService {
	return &TenantService{tenants: tenants, users: users, log: log}
}

// Create builds the tenant and links the creator to it in one transaction.
// The one-tenant rule is checked against the persisted user, not the token,
// so a stale token cannot sidestep it.
func (s *TenantService) Create(ctx context.Context, identity domain.Identity, input ports.TenantInput) (*domain.Tenant, error) {
	if err := identity.AuthorizeTenantCreation(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, domain.ErrForbidden
	}
	if user.TenantID != "" {
		return nil, domain.ErrTenantOwned
	}

	now := time.Now().UTC()
	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Host:      input.Host,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.tenants.CreateWithOwner(ctx, tenant, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("tenant_id", created.ID).Str("host", created.Host).Msg("tenant created")
	return created, nil
}
