package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// AppHandler exposes app management inside the caller's domain.
type AppHandler struct {
	apps ports.AppService
}

func NewAppHandler(apps ports.AppService) *AppHandler {
	return &AppHandler{apps: apps}
}

type createAppRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type appResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Secret    string    `json:"secret,omitempty"`
	IsActive  bool      `json:"is_active"`
	DomainID  string    `json:"domain_id"`
	CreatedAt time.Time `json:"created_at"`
}

type listAppsResponse struct {
	Data []appResponse `json:"data"`
}

// Create builds a new app in the caller's domain. The generated secret is
// returned only in this response.
//
// @Summary      Create an app
// @Tags         apps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppRequest  true  "App details"
// @Success      201   {object}  appResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /apps [post]
func (h *AppHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createAppRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.apps.Create(c.Request().Context(), identity, ports.AppInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appView(app, true))
}

// List returns the apps of the caller's domain. Secrets are omitted.
//
// @Summary      List apps
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listAppsResponse
// @Failure      404  {object}  errorResponse
// @Router       /apps [get]
func (h *AppHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	apps, err := h.apps.List(c.Request().Context(), identity)
	if err != nil {
		return err
	}

	resp := listAppsResponse{Data: make([]appResponse, 0, len(apps))}
	for i := range apps {
		resp.Data = append(resp.Data, appView(&apps[i], false))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete removes an app from the caller's domain.
//
// @Summary      Delete an app
// @Tags         apps
// @Security     BearerAuth
// @Param        app_id  path  string  true  "App ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /apps/{app_id} [delete]
func (h *AppHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.apps.Delete(c.Request().Context(), identity, c.Param("app_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func appView(app *domain.App, withSecret bool) appResponse {
	resp := appResponse{
		ID:        app.ID,
		Name:      app.Name,
		IsActive:  app.IsActive,
		DomainID:  app.TenantID,
		CreatedAt: app.CreatedAt,
	}
	if withSecret {
		resp.Secret = app.Secret
	}
	return resp
}
