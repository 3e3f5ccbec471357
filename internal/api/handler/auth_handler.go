package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/api/metrics"
	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// refreshTokenCookie is the cookie fallback for the refresh endpoint.
const refreshTokenCookie = "refresh_token"

// AuthHandler exposes registration, login and token refresh. These are the
// only routes the auth gate excludes, so every method here must treat its
// input as unauthenticated.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a new user account, optionally together with its domain.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details, optionally with a new domain"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if req.Domain != nil {
		input.Tenant = &ports.TenantInput{
			Name: req.Domain.Name,
			Host: req.Domain.Host,
		}
	}

	user, role, err := h.auth.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()

	resp := userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(role),
		CreatedAt: user.CreatedAt,
	}
	if req.Domain != nil && user.TenantID != "" {
		resp.Domain = &domainResponse{
			ID:        user.TenantID,
			Name:      req.Domain.Name,
			Host:      req.Domain.Host,
			IsActive:  true,
			CreatedAt: user.CreatedAt,
		}
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login authenticates with form-encoded credentials and returns both tokens.
// The username field carries the account email.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Account email"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	result, err := h.auth.Login(c.Request().Context(), email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, authResult(result))
}

// Refresh exchanges a refresh token for a fresh access token. The token is
// read from the JSON body first, then the refresh_token cookie.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token (cookie fallback)"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if c.Request().Method == http.MethodPost {
		_ = c.Bind(&req)
	}
	if req.Token == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			req.Token = cookie.Value
		}
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	result, err := h.auth.Refresh(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResult(result))
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrTenantRequired):
		return "no_domain"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unknown_user"
	default:
		return "error"
	}
}

func authResult(r *ports.AuthResult) tokenResponse {
	return tokenResponse{
		UserID:       r.UserID,
		Host:         r.Host,
		Role:         string(r.Role),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		TokenMaxAge:  r.TokenMaxAge,
	}
}
