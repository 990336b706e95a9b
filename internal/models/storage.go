// Package models contains data structures used across handlers
package models

// Entry types reported by the remote directory lister
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// RootID is the parent_id of entries sitting directly under the queried path
const RootID = "0"

// Entry represents one file or folder from a remote listing
type Entry struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	Type          string `json:"type"`
	Size          int64  `json:"file_size"`
	FormattedSize string `json:"formatted_size,omitempty"`
	LastModified  int64  `json:"last_modified,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`
	ETag          string `json:"etag,omitempty"`
	ParentID      string `json:"parent_id"`

	// ParentPath is the full path of the containing folder, empty for root.
	ParentPath string `json:"-"`
}

// IsDir reports whether the entry is a folder
func (e Entry) IsDir() bool {
	return e.Type == TypeDirectory
}

// Node is an Entry placed in a folder tree
type Node struct {
	Entry
	Children []*Node `json:"children,omitempty"`
}
