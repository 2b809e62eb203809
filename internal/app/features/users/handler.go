// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/actions"
	"github.com/dalemusser/threadhub/internal/app/system/auth"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/app/system/respond"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Service is the subset of actions the users endpoints call.
type Service interface {
	FetchUser(ctx context.Context, identity string) (*models.UserDetail, error)
	FetchUserPosts(ctx context.Context, identity string) (*models.UserThreads, error)
	SearchUsers(ctx context.Context, params actions.SearchParams) (*actions.SearchResult, error)
}

// Handler serves user lookups and search.
type Handler struct {
	Svc Service
	Log *zap.Logger
}

// NewHandler creates a users Handler.
func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// ServeSearch handles GET /users?q=&page=&size=&sort=.
// The signed-in caller, if any, is left out of the results.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	pg := paging.Parse(r)
	caller, _ := auth.CurrentIdentity(r)

	res, err := h.Svc.SearchUsers(r.Context(), actions.SearchParams{
		ExcludeIdentity: caller,
		SearchText:      query.Get(r, "q"),
		Page:            pg.Number,
		PageSize:        pg.Size,
		Sort:            query.Get(r, "sort"),
	})
	if err != nil {
		respond.ActionError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// ServeUser handles GET /users/{identity}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	detail, err := h.Svc.FetchUser(r.Context(), identity)
	if err != nil {
		respond.ActionError(w, h.Log, err)
		return
	}
	if detail == nil {
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, detail)
}

// ServeThreads handles GET /users/{identity}/threads.
func (h *Handler) ServeThreads(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	posts, err := h.Svc.FetchUserPosts(r.Context(), identity)
	if err != nil {
		respond.ActionError(w, h.Log, err)
		return
	}
	if posts == nil {
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, posts)
}
