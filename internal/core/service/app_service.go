package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// AppService manages apps inside the caller's tenant.
type AppService struct {
	apps ports.AppRepository
	log  zerolog.Logger
}

func NewAppService(apps ports.AppRepository, log zerolog.Logger) *AppService {
	return &AppService{apps: apps, log: log}
}

func (s *AppService) Create(ctx context.Context, identity domain.Identity, input ports.AppInput) (*domain.App, error) {
	if identity.TenantID == "" {
		return nil, domain.ErrTenantRequired
	}

	now := time.Now().UTC()
	app := &domain.App{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Secret:    domain.NewAppSecret(),
		IsActive:  true,
		TenantID:  identity.TenantID,
		MemberIDs: []string{identity.UserID},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("app_id", created.ID).Str("tenant_id", created.TenantID).Msg("app created")
	return created, nil
}

func (s *AppService) List(ctx context.Context, identity domain.Identity) ([]domain.App, error) {
	if identity.TenantID == "" {
		return nil, domain.ErrTenantRequired
	}
	return s.apps.ListByTenant(ctx, identity.TenantID)
}

// Delete removes an app in the caller's tenant. Cross-tenant IDs do not
// resolve, so the caller sees a 404 rather than a confirmation the app
// exists elsewhere.
func (s *AppService) Delete(ctx context.Context, identity domain.Identity, appID string) error {
	if identity.TenantID == "" {
		return domain.ErrTenantRequired
	}
	return s.apps.Delete(ctx, identity.TenantID, appID)
}
