package ports

import (
	"context"

	"github.com/quillcms/quill/internal/core/domain"
)

// AppRepository persists apps. Lookups are tenant-scoped so a cross-tenant
// ID simply does not resolve.
type AppRepository interface {
	Create(ctx context.Context, app *domain.App) (*domain.App, error)
	FindByID(ctx context.Context, tenantID, appID string) (*domain.App, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.App, error)
	Delete(ctx context.Context, tenantID, appID string) error
}

// ContentRepository persists content nodes. Slug is unique per app.
type ContentRepository interface {
	Create(ctx context.Context, content *domain.Content) (*domain.Content, error)
	ListRoots(ctx context.Context, appID string) ([]*domain.Content, error)
	ListChildren(ctx context.Context, appID, parentID string) ([]*domain.Content, error)
}

// MediaRepository persists media rows. All lookups are app-scoped.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) (*domain.Media, error)
	FindByID(ctx context.Context, appID, mediaID string) (*domain.Media, error)
	List(ctx context.Context, appID string, mediaType domain.MediaType, limit, offset int64) ([]domain.Media, error)
	Update(ctx context.Context, media *domain.Media) (*domain.Media, error)
	Delete(ctx context.Context, appID, mediaID string) error
}
