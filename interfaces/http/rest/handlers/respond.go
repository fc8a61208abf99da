// Package handlers contains the HTTP handlers of the REST surface. Handlers
// translate requests into commands and queries; domain decisions stay in the
// application layer.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"hivemind/pkg/errors"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// respondAppError maps a classified application error onto its HTTP status;
// anything unclassified is a 500 with the fallback message.
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	if appErr := errors.GetAppError(err); appErr != nil {
		respondError(w, logger, appErr.HTTPStatus, appErr.Message)
		return
	}
	if strings.Contains(err.Error(), "validation") {
		respondError(w, logger, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, logger, http.StatusInternalServerError, fallback)
}
