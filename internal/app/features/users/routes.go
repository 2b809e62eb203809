// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSearch)
	r.Get("/{identity}", h.ServeUser)
	r.Get("/{identity}/threads", h.ServeThreads)
	return r
}
