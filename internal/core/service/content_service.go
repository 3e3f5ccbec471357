package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// ContentService manages an app's content tree. Listings are cached; any
// write invalidates the app's cache entry.
type ContentService struct {
	contents ports.ContentRepository
	apps     ports.AppRepository
	cache    ports.ContentCache
	log      zerolog.Logger
}

func NewContentService(contents ports.ContentRepository, apps ports.AppRepository, cache ports.ContentCache, log zerolog.Logger) *ContentService {
	return &ContentService{contents: contents, apps: apps, cache: cache, log: log}
}

func (s *ContentService) Create(ctx context.Context, identity domain.Identity, appID string, input ports.ContentInput) (*domain.Content, error) {
	if input.Key == "" {
		return nil, domain.ErrInvalidInput
	}
	app, err := s.apps.FindByID(ctx, identity.TenantID, appID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	content := &domain.Content{
		ID:        uuid.NewString(),
		Key:       input.Key,
		Slug:      domain.Slugify(input.Key),
		Value:     input.Value,
		AppID:     app.ID,
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.contents.Create(ctx, content)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, app.ID)
	}
	return created, nil
}

// List returns the app's root nodes with one level of children, serving
// from the cache when the entry is fresh.
func (s *ContentService) List(ctx context.Context, identity domain.Identity, appID string) ([]*domain.Content, error) {
	app, err := s.apps.FindByID(ctx, identity.TenantID, appID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if roots, ok := s.cache.GetRoots(ctx, app.ID); ok {
			return roots, nil
		}
	}

	roots, err := s.contents.ListRoots(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		children, err := s.contents.ListChildren(ctx, app.ID, root.ID)
		if err != nil {
			return nil, err
		}
		root.Children = children
	}

	if s.cache != nil {
		s.cache.SetRoots(ctx, app.ID, roots)
	}
	return roots, nil
}
