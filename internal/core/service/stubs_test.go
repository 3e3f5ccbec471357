package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// In-memory fakes for the repository ports. They enforce the same uniqueness
// rules the datastore does so duplicate handling is exercised for real.

type stubRoleRepo struct {
	records map[domain.Role]*domain.RoleRecord
}

func newStubRoleRepo() *stubRoleRepo {
	now := time.Now().UTC()
	records := make(map[domain.Role]*domain.RoleRecord)
	for _, name := range []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin} {
		records[name] = &domain.RoleRecord{ID: "role-" + string(name), Name: name, CreatedAt: now, UpdatedAt: now}
	}
	return &stubRoleRepo{records: records}
}

func (r *stubRoleRepo) EnsureRoles(ctx context.Context) error { return nil }

func (r *stubRoleRepo) FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error) {
	if rec, ok := r.records[name]; ok {
		return rec, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindByID(ctx context.Context, id string) (*domain.RoleRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

type stubTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*domain.Tenant
	users   *stubUserRepo
	linkErr error
}

func newStubTenantRepo() *stubTenantRepo {
	return &stubTenantRepo{tenants: make(map[string]*domain.Tenant)}
}

func (r *stubTenantRepo) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(tenant)
}

// CreateWithOwner mirrors the transactional contract: when the owner link
// fails (linkErr, or unknown owner) the tenant is not persisted.
func (r *stubTenantRepo) CreateWithOwner(ctx context.Context, tenant *domain.Tenant, ownerID string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.linkErr != nil {
		return nil, r.linkErr
	}
	if r.users == nil {
		return nil, domain.ErrUserNotFound
	}
	created, err := r.insert(tenant)
	if err != nil {
		return nil, err
	}
	if err := r.users.AttachTenant(ctx, ownerID, created.ID); err != nil {
		delete(r.tenants, created.ID)
		return nil, err
	}
	return created, nil
}

func (r *stubTenantRepo) insert(tenant *domain.Tenant) (*domain.Tenant, error) {
	for _, existing := range r.tenants {
		if existing.Host == tenant.Host {
			return nil, &domain.DuplicateFieldError{Field: "host"}
		}
	}
	cp := *tenant
	r.tenants[cp.ID] = &cp
	return &cp, nil
}

func (r *stubTenantRepo) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tenants[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTenantNotFound
}

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	tenants *stubTenantRepo
}

func newStubUserRepo(tenants *stubTenantRepo) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User), tenants: tenants}
	if tenants != nil {
		tenants.users = r
	}
	return r
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User, tenant *domain.Tenant) (*domain.User, error) {
	r.mu.Lock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			r.mu.Unlock()
			return nil, &domain.DuplicateFieldError{Field: "email"}
		}
		if existing.Username == user.Username {
			r.mu.Unlock()
			return nil, &domain.DuplicateFieldError{Field: "username"}
		}
		if existing.Phone == user.Phone {
			r.mu.Unlock()
			return nil, &domain.DuplicateFieldError{Field: "phone"}
		}
	}
	r.mu.Unlock()

	cp := *user
	if tenant != nil {
		created, err := r.tenants.Create(ctx, tenant)
		if err != nil {
			return nil, err
		}
		cp.TenantID = created.ID
	}

	r.mu.Lock()
	r.users[cp.ID] = &cp
	r.mu.Unlock()
	out := cp
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) AttachTenant(ctx context.Context, userID, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.TenantID = tenantID
	return nil
}

func (r *stubUserRepo) CountByRoleID(ctx context.Context, roleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

type stubAppRepo struct {
	mu   sync.Mutex
	apps map[string]*domain.App
}

func newStubAppRepo() *stubAppRepo {
	return &stubAppRepo{apps: make(map[string]*domain.App)}
}

func (r *stubAppRepo) Create(ctx context.Context, app *domain.App) (*domain.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.apps[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubAppRepo) FindByID(ctx context.Context, tenantID, appID string) (*domain.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.apps[appID]; ok && a.TenantID == tenantID {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrAppNotFound
}

func (r *stubAppRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.App
	for _, a := range r.apps {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAppRepo) Delete(ctx context.Context, tenantID, appID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.apps[appID]; ok && a.TenantID == tenantID {
		delete(r.apps, appID)
		return nil
	}
	return domain.ErrAppNotFound
}

type stubContentRepo struct {
	mu    sync.Mutex
	nodes map[string]*domain.Content
	fail  bool
}

func newStubContentRepo() *stubContentRepo {
	return &stubContentRepo{nodes: make(map[string]*domain.Content)}
}

func (r *stubContentRepo) Create(ctx context.Context, content *domain.Content) (*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.nodes {
		if existing.AppID == content.AppID && existing.Slug == content.Slug {
			return nil, &domain.DuplicateFieldError{Field: "slug"}
		}
	}
	cp := *content
	r.nodes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubContentRepo) ListRoots(ctx context.Context, appID string) ([]*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, fmt.Errorf("unexpected repository call")
	}
	var out []*domain.Content
	for _, n := range r.nodes {
		if n.AppID == appID && n.ParentID == "" {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubContentRepo) ListChildren(ctx context.Context, appID, parentID string) ([]*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Content
	for _, n := range r.nodes {
		if n.AppID == appID && n.ParentID == parentID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubMediaRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Media
	createErr error
}

func newStubMediaRepo() *stubMediaRepo {
	return &stubMediaRepo{items: make(map[string]*domain.Media)}
}

func (r *stubMediaRepo) Create(ctx context.Context, media *domain.Media) (*domain.Media, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *media
	r.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubMediaRepo) FindByID(ctx context.Context, appID, mediaID string) (*domain.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.items[mediaID]; ok && m.AppID == appID {
		cp := *m
		return &cp, nil
	}
	return nil, domain.ErrMediaNotFound
}

func (r *stubMediaRepo) List(ctx context.Context, appID string, mediaType domain.MediaType, limit, offset int64) ([]domain.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Media
	for _, m := range r.items {
		if m.AppID != appID {
			continue
		}
		if mediaType != "" && m.MediaType != mediaType {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMediaRepo) Update(ctx context.Context, media *domain.Media) (*domain.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *media
	r.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubMediaRepo) Delete(ctx context.Context, appID, mediaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.items[mediaID]; ok && m.AppID == appID {
		delete(r.items, mediaID)
		return nil
	}
	return domain.ErrMediaNotFound
}

type stubObjectStore struct {
	mu      sync.Mutex
	objects map[string]string // key -> content type
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: make(map[string]string)}
}

func (s *stubObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, meta map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = contentType
	return nil
}

func (s *stubObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *stubObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func (s *stubObjectStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type stubJobSink struct {
	mu   sync.Mutex
	jobs []ports.MediaJob
}

func (s *stubJobSink) Enqueue(job ports.MediaJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func (s *stubJobSink) last() (ports.MediaJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jobs) == 0 {
		return ports.MediaJob{}, false
	}
	return s.jobs[len(s.jobs)-1], true
}

type stubMediaUsage struct {
	counts map[string]int64
}

func (u *stubMediaUsage) Count(ctx context.Context, appID string) (int64, error) {
	return u.counts[appID], nil
}

type stubContentCache struct {
	mu          sync.Mutex
	entries     map[string][]*domain.Content
	invalidated []string
}

func newStubContentCache() *stubContentCache {
	return &stubContentCache{entries: make(map[string][]*domain.Content)}
}

func (c *stubContentCache) GetRoots(ctx context.Context, appID string) ([]*domain.Content, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	roots, ok := c.entries[appID]
	return roots, ok
}

func (c *stubContentCache) SetRoots(ctx context.Context, appID string, roots []*domain.Content) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[appID] = roots
}

func (c *stubContentCache) Invalidate(ctx context.Context, appID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, appID)
	c.invalidated = append(c.invalidated, appID)
}
