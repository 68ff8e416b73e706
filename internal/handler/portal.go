package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"portal/internal/domain"
	"portal/internal/domain/services"
	"portal/internal/httputil"
)

// PortalHandler handles portal lookup and folder listing HTTP requests
type PortalHandler struct {
	portals  services.PortalService
	resolver services.PermissionResolver
	logger   *slog.Logger
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(portals services.PortalService, resolver services.PermissionResolver, logger *slog.Logger) *PortalHandler {
	return &PortalHandler{
		portals:  portals,
		resolver: resolver,
		logger:   logger,
	}
}

// GetPortalInfo returns an active portal by name. No authentication.
// GET /portal-api/getPortalInfo?portalName=
func (h *PortalHandler) GetPortalInfo(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("portalName")
	if name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Portal name is required")
		return
	}

	portal, err := h.portals.GetPortalInfo(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Portal not found")
			return
		}
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, portal)
}

// GetPortalFolders lists the portal's folders visible to the caller
// GET /portal-api/getPortalFolders?portalId=
func (h *PortalHandler) GetPortalFolders(w http.ResponseWriter, r *http.Request) {
	portalID := r.URL.Query().Get("portalId")
	if portalID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Portal ID is required")
		return
	}

	claims := httputil.GetClaims(r)
	if claims == nil {
		httputil.RespondUnauthorized(w, r)
		return
	}

	if !validID(portalID) {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid portal ID format")
		return
	}

	result, err := h.resolver.ResolveFolderPermissions(r.Context(), portalID, claims)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetFolderDetails returns one folder and its visible children
// GET /portal-api/getFolderDetails?folderId=
func (h *PortalHandler) GetFolderDetails(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	claims := httputil.GetClaims(r)
	if claims == nil {
		httputil.RespondUnauthorized(w, r)
		return
	}

	if !validID(folderID) {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid folder ID format")
		return
	}

	details, err := h.resolver.GetFolderDetails(r.Context(), folderID, claims)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Folder not found")
		case errors.Is(err, domain.ErrForbidden):
			httputil.RespondError(w, http.StatusForbidden, "Forbidden")
		default:
			handleError(w, h.logger, err)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, details)
}
