package domain

import "github.com/golang-jwt/jwt/v5"

// Claims is the signed claim set carried inside every token. It is minted at
// login/register/refresh and never persisted server-side; expiry is the only
// revocation mechanism.
type Claims struct {
	jwt.RegisteredClaims
	Host     string `json:"host,omitempty"`
	TenantID string `json:"domain,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Identity is the decoded, validated claim set attached to a single request.
// It is owned by that request's lifetime and never shared across requests.
type Identity struct {
	UserID   string
	Host     string
	TenantID string
	Role     Role
}

// IdentityFromClaims flattens verified claims into a request identity.
func IdentityFromClaims(c *Claims) Identity {
	return Identity{
		UserID:   c.Subject,
		Host:     c.Host,
		TenantID: c.TenantID,
		Role:     c.Role,
	}
}

// AuthorizeRole denies with ErrForbidden unless the identity's role ranks at
// least as high as required.
func (id Identity) AuthorizeRole(required Role) error {
	if !id.Role.AtLeast(required) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeTenantCreation denies when the identity already owns a tenant.
// One tenant per user is a hard invariant.
func (id Identity) AuthorizeTenantCreation() error {
	if id.TenantID != "" {
		return ErrTenantOwned
	}
	return nil
}

// AuthorizeTenant checks per-resource ownership: the resource's tenant must
// be the identity's tenant. Callers surface the denial as a 404 for concrete
// resources so existence is not leaked across tenants.
func (id Identity) AuthorizeTenant(resourceTenantID string) error {
	if id.TenantID == "" || id.TenantID != resourceTenantID {
		return ErrForbidden
	}
	return nil
}
