package ports

import (
	"context"
	"io"
	"time"

	"github.com/quillcms/quill/internal/core/domain"
)

// TenantService creates tenants on behalf of an authenticated identity.
type TenantService interface {
	Create(ctx context.Context, identity domain.Identity, input TenantInput) (*domain.Tenant, error)
}

// AppInput carries new-app data.
type AppInput struct {
	Name string
}

// AppService manages apps inside the caller's tenant.
type AppService interface {
	Create(ctx context.Context, identity domain.Identity, input AppInput) (*domain.App, error)
	List(ctx context.Context, identity domain.Identity) ([]domain.App, error)
	Delete(ctx context.Context, identity domain.Identity, appID string) error
}

// ContentInput carries a new content node.
type ContentInput struct {
	Key      string
	Value    map[string]any
	ParentID string
}

// ContentService manages an app's content tree.
type ContentService interface {
	Create(ctx context.Context, identity domain.Identity, appID string, input ContentInput) (*domain.Content, error)
	List(ctx context.Context, identity domain.Identity, appID string) ([]*domain.Content, error)
}

// MediaUpload carries an uploaded file and its metadata.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	MediaType   domain.MediaType
	Name        string
	IsPublic    bool
	AltText     string
	Caption     string
	Meta        map[string]any
}

// MediaUpdate carries a partial metadata update; nil fields are untouched.
type MediaUpdate struct {
	Name     *string
	AltText  *string
	Caption  *string
	IsPublic *bool
	Meta     map[string]any
}

// MediaStats summarizes an app's stored media.
type MediaStats struct {
	AppID string
	Count int64
}

// MediaService manages uploaded media for an app.
type MediaService interface {
	Upload(ctx context.Context, identity domain.Identity, appID string, upload MediaUpload) (*domain.Media, string, error)
	Get(ctx context.Context, identity domain.Identity, appID, mediaID string) (*domain.Media, string, error)
	List(ctx context.Context, identity domain.Identity, appID string, mediaType domain.MediaType, limit, offset int64) ([]domain.Media, error)
	Update(ctx context.Context, identity domain.Identity, appID, mediaID string, update MediaUpdate) (*domain.Media, string, error)
	Delete(ctx context.Context, identity domain.Identity, appID, mediaID string) error
	Stats(ctx context.Context, identity domain.Identity, appID string) (*MediaStats, error)
}

// ObjectStore abstracts the media object storage (S3 in production).
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, meta map[string]string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ContentCache caches content listings per app.
type ContentCache interface {
	GetRoots(ctx context.Context, appID string) ([]*domain.Content, bool)
	SetRoots(ctx context.Context, appID string, roots []*domain.Content)
	Invalidate(ctx context.Context, appID string)
}

// MediaJob is the post-upload work dispatched off the request path.
type MediaJob struct {
	AppID   string
	MediaID string
	Action  string
}

// MediaJobSink accepts media jobs for asynchronous processing.
type MediaJobSink interface {
	Enqueue(job MediaJob)
}

// MediaJobProcessor handles one media job off the request path.
type MediaJobProcessor interface {
	Process(ctx context.Context, job MediaJob) error
}

// MediaUsage reads the per-app counters the job pipeline maintains. Counts
// are eventually consistent with the media rows.
type MediaUsage interface {
	Count(ctx context.Context, appID string) (int64, error)
}
