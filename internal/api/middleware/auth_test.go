package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/service"
)

func newCodec(t *testing.T) *service.TokenService {
	t.Helper()
	codec, err := service.NewTokenService("test-secret", "HS256")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func mintToken(t *testing.T, codec *service.TokenService, ttl time.Duration) string {
	t.Helper()
	token, err := codec.Encode(&domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Host:             "acme",
		TenantID:         "tenant-1",
		Role:             domain.RoleAdmin,
	}, ttl)
	if err != nil {
		t.Fatalf("encode token: %v", err)
	}
	return token
}

func TestAuth_ExcludedPathBypasses(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newCodec(t), nil)(func(c echo.Context) error {
		called = true
		if _, ok := IdentityFrom(c); ok {
			t.Fatalf("excluded path should carry no identity")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_MissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(newCodec(t), nil)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("gate must write its own response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Missing authentication token") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(newCodec(t), nil)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("gate must write its own response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Invalid token") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAuth_ValidTokenInjectsIdentity(t *testing.T) {
	e := echo.New()
	codec := newCodec(t)

	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, codec, 30*time.Minute))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(codec, nil)(func(c echo.Context) error {
		called = true
		id, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity missing")
		}
		if id.UserID != "user-1" || id.TenantID != "tenant-1" || id.Role != domain.RoleAdmin {
			t.Fatalf("unexpected identity: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	// Far from expiry: no rotation cookie.
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("fresh token must not trigger rotation")
	}
}

func TestAuth_NearExpiryRotates(t *testing.T) {
	e := echo.New()
	codec := newCodec(t)

	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, codec, 2*time.Minute))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(codec, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var rotated *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == AccessTokenCookie {
			rotated = cookie
		}
	}
	if rotated == nil {
		t.Fatalf("expected rotated %s cookie", AccessTokenCookie)
	}
	if !rotated.HttpOnly || !rotated.Secure || rotated.Path != "/" {
		t.Fatalf("cookie attributes wrong: %+v", rotated)
	}
	if rotated.MaxAge != int((30 * time.Minute).Seconds()) {
		t.Fatalf("expected 30m max-age, got %d", rotated.MaxAge)
	}

	claims, err := codec.Decode(rotated.Value)
	if err != nil {
		t.Fatalf("rotated token does not verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.TenantID != "tenant-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("rotation must preserve claims, got %+v", claims)
	}
	if remaining := time.Until(claims.ExpiresAt.Time); remaining < 29*time.Minute {
		t.Fatalf("rotated token expires too soon: %s", remaining)
	}
}

func TestAuth_CookieFallback(t *testing.T) {
	e := echo.New()
	codec := newCodec(t)

	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: mintToken(t, codec, 30*time.Minute)})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(codec, nil)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("cookie token must authenticate")
	}
}

func TestPathExcluded(t *testing.T) {
	patterns := DefaultExcludedPaths
	cases := []struct {
		path string
		want bool
	}{
		{"/auth/login", true},
		{"/auth/token/refresh", true},
		{"/docs/index.html", true},
		{"/openapi.json", true},
		{"/health", true},
		{"/health/ready", true},
		{"/metrics", true},
		{"/apps", false},
		{"/media/app-1", false},
	}
	for _, tc := range cases {
		if got := pathExcluded(patterns, tc.path); got != tc.want {
			t.Errorf("pathExcluded(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

