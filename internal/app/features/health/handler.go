// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/system/respond"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Connector hands out the shared database. *mongoconn.Manager satisfies it.
type Connector interface {
	Ensure(ctx context.Context) (*mongo.Database, error)
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Conn Connector
	Log  *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(conn Connector, logger *zap.Logger) *Handler {
	return &Handler{Conn: conn, Log: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
//
// A failed check does not stop the next one from trying to connect again.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	db, err := h.Conn.Ensure(ctx)
	if err == nil {
		err = db.Client().Ping(ctx, readpref.Primary())
	}
	if err != nil {
		h.Log.Error("health-check: mongo unavailable", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "disconnected",
			Message:  "Database unavailable",
			Error:    err.Error(),
		})
		return
	}

	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected"})
}
