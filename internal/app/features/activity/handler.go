// internal/app/features/activity/handler.go
package activity

import (
	"context"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/system/auth"
	"github.com/dalemusser/threadhub/internal/app/system/respond"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.uber.org/zap"
)

// Service loads the replies made to a user's threads.
type Service interface {
	GetActivity(ctx context.Context, identity string) ([]models.Reply, error)
}

type Handler struct {
	Svc Service
	Log *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

type activityResponse struct {
	Replies []models.Reply `json:"replies"`
}

// ServeActivity handles GET /activity for the signed-in caller.
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CurrentIdentity(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	replies, err := h.Svc.GetActivity(r.Context(), identity)
	if err != nil {
		respond.ActionError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, activityResponse{Replies: replies})
}
