package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/core/domain"
)

// RequireRole enforces the role hierarchy: the request identity must rank
// at least as high as required (user < admin < super_admin). It must run
// after the Auth gate.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authentication claims"})
			}
			if err := identity.AuthorizeRole(required); err != nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			return next(c)
		}
	}
}
