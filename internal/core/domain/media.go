package domain

import "time"

// MediaType classifies an uploaded object.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

// ParseMediaType maps a request string to a known media type.
func ParseMediaType(s string) (MediaType, bool) {
	switch t := MediaType(s); t {
	case MediaImage, MediaVideo, MediaAudio, MediaDocument:
		return t, true
	}
	return "", false
}

// Media is an uploaded object owned by an app. FileKey is the object-store
// key; the serving URL is derived per request (presigned) and never stored.
type Media struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	OriginalFilename string         `json:"original_filename"`
	FileKey          string         `json:"-"`
	FileExtension    string         `json:"file_extension"`
	FileSize         int64          `json:"file_size"`
	MimeType         string         `json:"mime_type"`
	MediaType        MediaType      `json:"media_type"`
	IsPublic         bool           `json:"is_public"`
	AltText          string         `json:"alt_text,omitempty"`
	Caption          string         `json:"caption,omitempty"`
	Meta             map[string]any `json:"meta,omitempty"`
	AppID            string         `json:"app_id"`
	UploadedByID     string         `json:"uploaded_by_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
