package queries

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hivemind/application/dto"
	"hivemind/application/ports"
)

// ListSavedQuery fetches the manifests of every hive on the user's yard.
type ListSavedQuery struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q ListSavedQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ListSavedHandler handles the ListSavedQuery
type ListSavedHandler struct {
	saved       ports.SavedHiveRepository
	historyDays int
	logger      *zap.Logger
}

// NewListSavedHandler creates a new handler instance
func NewListSavedHandler(saved ports.SavedHiveRepository, historyDays int, logger *zap.Logger) *ListSavedHandler {
	return &ListSavedHandler{
		saved:       saved,
		historyDays: historyDays,
		logger:      logger,
	}
}

// Handle executes the list saved query
func (h *ListSavedHandler) Handle(ctx context.Context, query ListSavedQuery) ([]dto.ManifestDTO, error) {
	manifests, err := h.saved.ListManifests(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC()
	results := make([]dto.ManifestDTO, 0, len(manifests))
	for _, m := range manifests {
		results = append(results, dto.NewManifestDTO(m, today, h.historyDays))
	}
	return results, nil
}
