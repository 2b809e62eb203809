// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/threadhub/internal/app/actions"
	"github.com/dalemusser/threadhub/internal/app/system/auth"
	"github.com/dalemusser/threadhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/threadhub/internal/app/system/limits"
	"github.com/dalemusser/threadhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Upserter writes a user profile.
type Upserter interface {
	UpsertUser(ctx context.Context, in actions.ProfileInput) error
}

// Handler owns the profile write endpoint.
type Handler struct {
	Svc Upserter
	Log *zap.Logger
}

// NewHandler constructs a profile Handler.
func NewHandler(svc Upserter, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

type profileRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Path     string `json:"path"`
}

// HandleUpsert handles PUT /profile for the signed-in caller.
//
// Body:
//
//	{ "username":"...", "name":"...", "bio":"...", "image":"...", "path":"/profile/edit" }
//
// path is the page the form was submitted from; it defaults to
// /profile/edit.
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CurrentIdentity(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxProfileBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		req.Path = actions.ProfileEditPath
	}

	err := h.Svc.UpsertUser(r.Context(), actions.ProfileInput{
		Identity: identity,
		Username: strings.TrimSpace(req.Username),
		Name:     htmlsanitize.PlainText(req.Name),
		Bio:      htmlsanitize.PlainText(req.Bio),
		Image:    strings.TrimSpace(req.Image),
		Path:     req.Path,
	})
	if err != nil {
		respond.ActionError(w, h.Log, err)
		return
	}

	h.Log.Info("profile saved", zap.String("identity", identity))
	w.WriteHeader(http.StatusNoContent)
}
