// internal/app/features/session/handler.go
package session

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/system/auth"
	"github.com/dalemusser/threadhub/internal/app/system/limits"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler signs callers in by identity. It stands in for the external
// identity provider during development and is only mounted in the dev
// environment.
type Handler struct {
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sm, Log: logger}
}

type signInRequest struct {
	Identity string `json:"identity"`
}

// HandleSignIn handles POST /session with body {"identity":"..."}.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxSessionBody)).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	identity := normalize.Identity(req.Identity)
	if identity == "" {
		respond.Error(w, http.StatusBadRequest, "identity is required")
		return
	}

	if err := h.Sessions.SignIn(w, r, identity); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Log.Info("dev sign-in", zap.String("identity", identity))
	w.WriteHeader(http.StatusNoContent)
}

// HandleSignOut handles DELETE /session.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
