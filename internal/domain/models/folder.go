package models

import (
	"time"
)

type Folder struct {
	ID          string    `json:"id" db:"id"`
	PortalID    string    `json:"portal_id" db:"portal_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	IsUniversal bool      `json:"is_universal" db:"is_universal"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FolderPermission is an explicit per-user grant. A missing row means no grant.
type FolderPermission struct {
	UserID   string `json:"user_id" db:"user_id"`
	FolderID string `json:"folder_id" db:"folder_id"`
	CanEdit  bool   `json:"can_edit" db:"can_edit"`
	CanView  bool   `json:"can_view" db:"can_view"`
}

// FolderAccess is a folder annotated with the caller's effective rights.
// Computed per request, never stored.
type FolderAccess struct {
	Folder
	CanEdit bool `json:"canEdit"`
	CanView bool `json:"canView"`
}

// PortalFolders is the folder listing envelope for one portal.
type PortalFolders struct {
	Folders       []FolderAccess `json:"folders"`
	UserRole      Role           `json:"userRole"`
	IsPortalAdmin bool           `json:"isPortalAdmin"`
}

// FolderDetails is one folder plus its directly nested, viewable children.
type FolderDetails struct {
	Folder        FolderAccess   `json:"folder"`
	Children      []FolderAccess `json:"children"`
	UserRole      Role           `json:"userRole"`
	IsPortalAdmin bool           `json:"isPortalAdmin"`
}
