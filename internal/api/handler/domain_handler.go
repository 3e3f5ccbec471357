package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/core/ports"
)

// DomainHandler exposes tenant ("domain") management.
type DomainHandler struct {
	tenants ports.TenantService
}

func NewDomainHandler(tenants ports.TenantService) *DomainHandler {
	return &DomainHandler{tenants: tenants}
}

type createDomainRequest struct {
	Name string `json:"name" validate:"required"`
	Host string `json:"host" validate:"required,hostname_rfc1123"`
}

// Create registers a new domain owned by the caller. Each user may own at
// most one domain; a second attempt is rejected.
//
// @Summary      Create a domain
// @Tags         domains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDomainRequest  true  "Domain details"
// @Success      201   {object}  domainResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /domain [post]
func (h *DomainHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createDomainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenants.Create(c.Request().Context(), identity, ports.TenantInput{
		Name: req.Name,
		Host: req.Host,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, domainResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Host:      tenant.Host,
		IsActive:  tenant.IsActive,
		CreatedAt: tenant.CreatedAt,
	})
}
