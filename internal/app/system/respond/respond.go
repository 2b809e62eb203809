// Package respond writes JSON responses for the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/actions"
	"go.uber.org/zap"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// ActionError maps an action failure to a status code. Invalid input is the
// caller's fault and its message is returned as is; everything else is
// logged and reported without store detail.
func ActionError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var aerr *actions.Error
	if !errors.As(err, &aerr) {
		logger.Error("unexpected handler error", zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch aerr.Kind {
	case actions.KindInvalidInput:
		Error(w, http.StatusBadRequest, aerr.Error())
	case actions.KindConnection:
		logger.Error("database unavailable", zap.String("op", aerr.Op), zap.Error(err))
		Error(w, http.StatusServiceUnavailable, "database unavailable")
	default:
		logger.Error("action failed", zap.String("op", aerr.Op), zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
