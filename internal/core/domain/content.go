package domain

import "time"

// Content is one node of an app's content tree. The slug is unique within
// the app; a nil ParentID marks a root node.
type Content struct {
	ID        string         `json:"id"`
	Key       string         `json:"key"`
	Slug      string         `json:"slug"`
	Value     map[string]any `json:"value,omitempty"`
	AppID     string         `json:"app_id"`
	ParentID  string         `json:"parent_id,omitempty"`
	Children  []*Content     `json:"children,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
