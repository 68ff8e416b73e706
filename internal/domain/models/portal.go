package models

import "time"

// Portal is a named tenant space, looked up by its slug.
type Portal struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Description *string   `json:"description" db:"description"`
	LogoURL     *string   `json:"logo_url" db:"logo_url"`
	BannerURL   *string   `json:"banner_url" db:"banner_url"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PortalAdmin marks a user as administrator of one portal.
type PortalAdmin struct {
	PortalID string `json:"portal_id" db:"portal_id"`
	UserID   string `json:"user_id" db:"user_id"`
}
