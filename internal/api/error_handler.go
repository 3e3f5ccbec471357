package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Auth-gate failures never arrive here; the gate writes its own 401 bodies.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Duplicate unique fields: the collided field is named in the detail,
	// never the raw datastore error. Slug collisions are semantic
	// (duplicate content name) and rank as unprocessable.
	if field, ok := domain.IsDuplicateField(err); ok {
		if field == "slug" {
			return http.StatusUnprocessableEntity, "duplicate content name"
		}
		return http.StatusBadRequest, err.Error()
	}

	switch {
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized, domain.ErrWrongPassword.Error()
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenSignature),
		errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrTenantOwned):
		return http.StatusForbidden, domain.ErrTenantOwned.Error()
	case errors.Is(err, domain.ErrTenantRequired):
		return http.StatusNotFound, domain.ErrTenantRequired.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTenantNotFound),
		errors.Is(err, domain.ErrAppNotFound),
		errors.Is(err, domain.ErrContentNotFound),
		errors.Is(err, domain.ErrMediaNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
