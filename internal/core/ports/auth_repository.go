package ports

import (
	"context"

	"github.com/quillcms/quill/internal/core/domain"
)

// UserRepository persists users. Create is atomic with the optional tenant:
// when tenant is non-nil both rows are written in one transaction and the
// user is linked to the tenant, or neither persists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User, tenant *domain.Tenant) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	CountByRoleID(ctx context.Context, roleID string) (int64, error)
}

// RoleRepository reads the fixed role rows. EnsureRoles seeds the three
// enum rows exactly once at startup if absent.
type RoleRepository interface {
	EnsureRoles(ctx context.Context) error
	FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
	FindByID(ctx context.Context, id string) (*domain.RoleRecord, error)
}

// TenantRepository persists tenants ("domains"). CreateWithOwner inserts the
// tenant and links the owning user in one transaction, or neither write
// lands; a failed link must not burn the uniquely indexed host.
type TenantRepository interface {
	CreateWithOwner(ctx context.Context, tenant *domain.Tenant, ownerID string) (*domain.Tenant, error)
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
}
