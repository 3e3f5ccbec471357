package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/api/middleware"
	"github.com/quillcms/quill/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth gate and performs
// a fast-fail check before any service call: a missing identity or empty
// subject means the gate did not run for this route, which is a wiring bug
// surfaced as 401 rather than a panic downstream.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
