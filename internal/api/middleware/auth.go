package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/api/metrics"
	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

const (
	// rotationWindow is the grace period before expiry inside which the
	// gate silently reissues the access token.
	rotationWindow = 5 * time.Minute
	// rotatedTokenTTL is the lifetime of a rotated access token.
	rotatedTokenTTL = 30 * time.Minute

	// AccessTokenCookie is the cookie carrying the access token for
	// browser clients; the Authorization header takes precedence.
	AccessTokenCookie = "access_token"

	identityKey = "auth.identity"
)

// DefaultExcludedPaths are the public routes the gate never touches.
var DefaultExcludedPaths = []string{
	"/auth/*",
	"/docs*",
	"/openapi.json",
	"/health*",
	"/metrics",
}

// Auth is the request gate. For every non-excluded request it extracts the
// bearer token (header first, cookie fallback), verifies it, rotates it when
// close to expiry, and attaches the decoded identity to the request context.
// Every failure short-circuits to a 401 JSON body here; gate failures never
// reach the generic error handler.
func Auth(codec ports.TokenCodec, excluded []string) echo.MiddlewareFunc {
	if excluded == nil {
		excluded = DefaultExcludedPaths
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if pathExcluded(excluded, c.Request().URL.Path) {
				return next(c)
			}

			token := extractToken(c)
			if token == "" {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return unauthorized(c, "Missing authentication token")
			}

			claims, err := codec.Decode(token)
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues(denialReason(err)).Inc()
				return unauthorized(c, "Invalid token")
			}

			// Inside the grace window the client gets a fresh token on the
			// response, so an active session never hits a hard cutoff.
			if time.Until(claims.ExpiresAt.Time) <= rotationWindow {
				rotated, err := codec.Encode(&domain.Claims{
					RegisteredClaims: claims.RegisteredClaims,
					Host:             claims.Host,
					TenantID:         claims.TenantID,
					Role:             claims.Role,
				}, rotatedTokenTTL)
				if err != nil {
					return unauthorized(c, "Invalid token")
				}
				setAccessCookie(c, rotated, rotatedTokenTTL)
				metrics.TokensRotatedTotal.Inc()
			}

			c.Set(identityKey, domain.IdentityFromClaims(claims))
			return next(c)
		}
	}
}

// IdentityFrom returns the identity the gate attached to this request.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// SetIdentity injects an identity directly. Test use only.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

func extractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func setAccessCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// pathExcluded matches p against simple globs: a trailing '*' matches any
// suffix including slashes, otherwise the pattern must match exactly.
func pathExcluded(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(p, prefix) {
				return true
			}
			continue
		}
		if p == pattern {
			return true
		}
	}
	return false
}

func denialReason(err error) string {
	switch err {
	case domain.ErrTokenExpired:
		return "expired"
	case domain.ErrTokenSignature:
		return "invalid_signature"
	default:
		return "malformed"
	}
}

func unauthorized(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": detail})
}
