package handler

import (
	"net/http"
)

// RegisterRoutes mounts the public API on mux. Auth middleware must wrap
// the mux for the bearer-protected routes to see claims.
func RegisterRoutes(mux *http.ServeMux, auth *AuthHandler, portal *PortalHandler, health *HealthHandler) {
	// Auth routes
	mux.HandleFunc("POST /auth-login", auth.Login)
	mux.HandleFunc("POST /auth-signup", auth.Signup)
	mux.HandleFunc("GET /auth-session", auth.Session)

	// Portal routes
	mux.HandleFunc("GET /portal-api/getPortalInfo", portal.GetPortalInfo)
	mux.HandleFunc("GET /portal-api/getPortalFolders", portal.GetPortalFolders)
	mux.HandleFunc("GET /portal-api/getFolderDetails", portal.GetFolderDetails)

	mux.HandleFunc("GET /health", health.Health)
}
