// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/threadhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router mounted under /activity. Callers must be signed in.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeActivity)
	return r
}
