package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillcms/quill/internal/api/metrics"
	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
)

// MediaHandler exposes media upload and management for an app.
type MediaHandler struct {
	media ports.MediaService
}

func NewMediaHandler(media ports.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// mediaResponse decorates the stored metadata with a presigned URL when the
// object is publicly served.
type mediaResponse struct {
	*domain.Media
	URL string `json:"url,omitempty"`
}

type updateMediaRequest struct {
	Name     *string        `json:"name,omitempty"`
	AltText  *string        `json:"alt_text,omitempty"`
	Caption  *string        `json:"caption,omitempty"`
	IsPublic *bool          `json:"is_public,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

type listMediaResponse struct {
	Data []domain.Media `json:"data"`
}

type mediaStatsResponse struct {
	AppID string `json:"app_id"`
	Count int64  `json:"count"`
}

// Upload stores a multipart file in the object store and records its
// metadata.
//
// @Summary      Upload media
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        app_id      path      string  true   "App ID"
// @Param        file        formData  file    true   "File to upload"
// @Param        media_type  formData  string  true   "One of image, video, audio, document"
// @Param        name        formData  string  false  "Display name (defaults to the filename)"
// @Param        is_public   formData  bool    false  "Serve through presigned URLs"
// @Param        alt_text    formData  string  false  "Alt text"
// @Param        caption     formData  string  false  "Caption"
// @Param        meta        formData  string  false  "Extra metadata as a JSON object"
// @Success      201  {object}  mediaResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /media/{app_id} [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	mediaType, ok := domain.ParseMediaType(c.FormValue("media_type"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "media_type must be one of: image video audio document")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	upload := ports.MediaUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
		MediaType:   mediaType,
		Name:        c.FormValue("name"),
		IsPublic:    c.FormValue("is_public") == "true",
		AltText:     c.FormValue("alt_text"),
		Caption:     c.FormValue("caption"),
	}
	if raw := c.FormValue("meta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upload.Meta); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "meta must be a JSON object")
		}
	}

	media, url, err := h.media.Upload(c.Request().Context(), identity, c.Param("app_id"), upload)
	if err != nil {
		return err
	}
	metrics.MediaUploadsTotal.WithLabelValues(string(media.MediaType)).Inc()

	return c.JSON(http.StatusCreated, mediaResponse{Media: media, URL: url})
}

// Get returns one media record with a presigned URL when public.
//
// @Summary      Get media
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        app_id    path      string  true  "App ID"
// @Param        media_id  path      string  true  "Media ID"
// @Success      200       {object}  mediaResponse
// @Failure      404       {object}  errorResponse
// @Router       /media/{app_id}/{media_id} [get]
func (h *MediaHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	media, url, err := h.media.Get(c.Request().Context(), identity, c.Param("app_id"), c.Param("media_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mediaResponse{Media: media, URL: url})
}

// List returns the app's media, newest first, optionally filtered by type.
//
// @Summary      List media
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        app_id      path      string  true   "App ID"
// @Param        media_type  query     string  false  "Filter by media type"
// @Param        limit       query     int     false  "Page size (default 100)"
// @Param        offset      query     int     false  "Items to skip"
// @Success      200         {object}  listMediaResponse
// @Failure      404         {object}  errorResponse
// @Router       /media/{app_id} [get]
func (h *MediaHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var mediaType domain.MediaType
	if raw := c.QueryParam("media_type"); raw != "" {
		mt, ok := domain.ParseMediaType(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "media_type must be one of: image video audio document")
		}
		mediaType = mt
	}
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	items, err := h.media.List(c.Request().Context(), identity, c.Param("app_id"), mediaType, limit, offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Media{}
	}
	return c.JSON(http.StatusOK, listMediaResponse{Data: items})
}

// Stats returns the app's media count from the usage counters.
//
// @Summary      Media stats
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        app_id  path      string  true  "App ID"
// @Success      200     {object}  mediaStatsResponse
// @Failure      404     {object}  errorResponse
// @Router       /media/{app_id}/stats [get]
func (h *MediaHandler) Stats(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.media.Stats(c.Request().Context(), identity, c.Param("app_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mediaStatsResponse{AppID: stats.AppID, Count: stats.Count})
}

// Update patches media metadata; absent fields are untouched.
//
// @Summary      Update media metadata
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        app_id    path      string              true  "App ID"
// @Param        media_id  path      string              true  "Media ID"
// @Param        body      body      updateMediaRequest  true  "Fields to update"
// @Success      200       {object}  mediaResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /media/{app_id}/{media_id} [put]
func (h *MediaHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateMediaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	media, url, err := h.media.Update(c.Request().Context(), identity, c.Param("app_id"), c.Param("media_id"), ports.MediaUpdate{
		Name:     req.Name,
		AltText:  req.AltText,
		Caption:  req.Caption,
		IsPublic: req.IsPublic,
		Meta:     req.Meta,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mediaResponse{Media: media, URL: url})
}

// Delete removes the stored object and its metadata.
//
// @Summary      Delete media
// @Tags         media
// @Security     BearerAuth
// @Param        app_id    path  string  true  "App ID"
// @Param        media_id  path  string  true  "Media ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /media/{app_id}/{media_id} [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.media.Delete(c.Request().Context(), identity, c.Param("app_id"), c.Param("media_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
