package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

const (
	presignTTL        = time.Hour
	defaultMediaLimit = 100
)

// MediaService manages uploaded media. Binary data lives in the object
// store under media/<app_id>/<timestamp>_<slug><ext>; the database holds
// only metadata. Public media gets a presigned URL per request.
type MediaService struct {
	media ports.MediaRepository
	apps  ports.AppRepository
	store ports.ObjectStore
	jobs  ports.MediaJobSink
	usage ports.MediaUsage
	log   zerolog.Logger
}

func NewMediaService(media ports.MediaRepository, apps ports.AppRepository, store ports.ObjectStore, jobs ports.MediaJobSink, usage ports.MediaUsage, log zerolog.Logger) *MediaService {
	return &MediaService{media: media, apps: apps, store: store, jobs: jobs, usage: usage, log: log}
}

func (s *MediaService) Upload(ctx context.Context, identity domain.Identity, appID string, up ports.MediaUpload) (*domain.Media, string, error) {
	app, err := s.apps.FindByID(ctx, identity.TenantID, appID)
	if err != nil {
		return nil, "", err
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	if ext == "" {
		return nil, "", fmt.Errorf("%w: file must have an extension", domain.ErrInvalidInput)
	}
	if up.Size <= 0 {
		return nil, "", fmt.Errorf("%w: file cannot be empty", domain.ErrInvalidInput)
	}

	name := up.Name
	if name == "" {
		name = strings.TrimSuffix(up.Filename, ext)
	}
	slug := domain.Slugify(name)
	key := fmt.Sprintf("media/%s/%s_%s%s", app.ID, time.Now().UTC().Format("20060102150405"), slug, ext)

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	meta := map[string]string{
		"name":              slug,
		"app_id":            app.ID,
		"original_filename": up.Filename,
		"media_type":        string(up.MediaType),
		"uploaded_by":       identity.UserID,
	}
	if err := s.store.Upload(ctx, key, up.Body, contentType, meta); err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	media := &domain.Media{
		ID:               uuid.NewString(),
		Name:             slug + ext,
		OriginalFilename: up.Filename,
		FileKey:          key,
		FileExtension:    strings.TrimPrefix(ext, "."),
		FileSize:         up.Size,
		MimeType:         contentType,
		MediaType:        up.MediaType,
		IsPublic:         up.IsPublic,
		AltText:          up.AltText,
		Caption:          up.Caption,
		Meta:             up.Meta,
		AppID:            app.ID,
		UploadedByID:     identity.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.media.Create(ctx, media)
	if err != nil {
		// The row failed; do not leave an orphan object behind.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error().Err(delErr).Str("key", key).Msg("orphan object cleanup failed")
		}
		return nil, "", err
	}

	if s.jobs != nil {
		s.jobs.Enqueue(ports.MediaJob{AppID: app.ID, MediaID: created.ID, Action: "uploaded"})
	}

	url, err := s.publicURL(ctx, created)
	if err != nil {
		return nil, "", err
	}
	return created, url, nil
}

func (s *MediaService) Get(ctx context.Context, identity domain.Identity, appID, mediaID string) (*domain.Media, string, error) {
	media, err := s.find(ctx, identity, appID, mediaID)
	if err != nil {
		return nil, "", err
	}
	url, err := s.publicURL(ctx, media)
	if err != nil {
		return nil, "", err
	}
	return media, url, nil
}

func (s *MediaService) List(ctx context.Context, identity domain.Identity, appID string, mediaType domain.MediaType, limit, offset int64) ([]domain.Media, error) {
	app, err := s.apps.FindByID(ctx, identity.TenantID, appID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMediaLimit
	}
	return s.media.List(ctx, app.ID, mediaType, limit, offset)
}

func (s *MediaService) Update(ctx context.Context, identity domain.Identity, appID, mediaID string, update ports.MediaUpdate) (*domain.Media, string, error) {
	media, err := s.find(ctx, identity, appID, mediaID)
	if err != nil {
		return nil, "", err
	}

	if update.Name != nil {
		media.Name = *update.Name
	}
	if update.AltText != nil {
		media.AltText = *update.AltText
	}
	if update.Caption != nil {
		media.Caption = *update.Caption
	}
	if update.IsPublic != nil {
		media.IsPublic = *update.IsPublic
	}
	if update.Meta != nil {
		media.Meta = update.Meta
	}
	media.UpdatedAt = time.Now().UTC()

	updated, err := s.media.Update(ctx, media)
	if err != nil {
		return nil, "", err
	}
	url, err := s.publicURL(ctx, updated)
	if err != nil {
		return nil, "", err
	}
	return updated, url, nil
}

// Delete removes the stored object first, then the row. A dangling row is
// recoverable; a dangling object is not.
func (s *MediaService) Delete(ctx context.Context, identity domain.Identity, appID, mediaID string) error {
	media, err := s.find(ctx, identity, appID, mediaID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, media.FileKey); err != nil {
		return err
	}
	if err := s.media.Delete(ctx, media.AppID, media.ID); err != nil {
		return err
	}
	if s.jobs != nil {
		s.jobs.Enqueue(ports.MediaJob{AppID: media.AppID, MediaID: media.ID, Action: "deleted"})
	}
	return nil
}

// Stats returns the per-app media count maintained by the job pipeline. The
// counter trails the media rows by however far the dispatcher is behind.
func (s *MediaService) Stats(ctx context.Context, identity domain.Identity, appID string) (*ports.MediaStats, error) {
	app, err := s.apps.FindByID(ctx, identity.TenantID, appID)
	if err != nil {
		return nil, err
	}
	count, err := s.usage.Count(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	return &ports.MediaStats{AppID: app.ID, Count: count}, nil
}

// find resolves media through the tenant-scoped app so a cross-tenant ID
// surfaces as not-found.
func (s *MediaService) find(ctx context.Context, identity domain.Identity, appID, mediaID string) (*domain.Media, error) {
	app, err := s.apps.FindByID(ctx, identity.TenantID, appID)
	if err != nil {
		return nil, err
	}
	if err := identity.AuthorizeTenant(app.TenantID); err != nil {
		return nil, domain.ErrAppNotFound
	}
	return s.media.FindByID(ctx, app.ID, mediaID)
}

func (s *MediaService) publicURL(ctx context.Context, media *domain.Media) (string, error) {
	if !media.IsPublic {
		return "", nil
	}
	return s.store.PresignGet(ctx, media.FileKey, presignTTL)
}
