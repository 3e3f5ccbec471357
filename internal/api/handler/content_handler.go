package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// ContentHandler exposes an app's content tree.
type ContentHandler struct {
	content ports.ContentService
}

func NewContentHandler(content ports.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type createContentRequest struct {
	Key      string         `json:"key" validate:"required"`
	Value    map[string]any `json:"value,omitempty"`
	ParentID string         `json:"parent_id,omitempty"`
}

type listContentResponse struct {
	Data []*domain.Content `json:"data"`
}

// Create adds a content node to the app. The key is slugged and the slug
// must be unique within the app.
//
// @Summary      Create a content node
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        app_id  path      string                true  "App ID"
// @Param        body    body      createContentRequest  true  "Content node"
// @Success      201     {object}  domain.Content
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /content/{app_id} [post]
func (h *ContentHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	node, err := h.content.Create(c.Request().Context(), identity, c.Param("app_id"), ports.ContentInput{
		Key:      req.Key,
		Value:    req.Value,
		ParentID: req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, node)
}

// List returns the app's root content nodes with one level of children.
//
// @Summary      List content
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        app_id  path      string  true  "App ID"
// @Success      200     {object}  listContentResponse
// @Failure      404     {object}  errorResponse
// @Router       /content/{app_id} [get]
func (h *ContentHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	roots, err := h.content.List(c.Request().Context(), identity, c.Param("app_id"))
	if err != nil {
		return err
	}
	if roots == nil {
		roots = []*domain.Content{}
	}
	return c.JSON(http.StatusOK, listContentResponse{Data: roots})
}
