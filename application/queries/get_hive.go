// Package queries contains the read-side operations. Handlers return DTOs
// only; raw response lists never reach the caller.
package queries

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hivemind/application/dto"
	"hivemind/application/ports"
)

// GetHiveQuery fetches one hive manifest as seen today.
type GetHiveQuery struct {
	UserID string `json:"user_id" validate:"required"`
	HiveID string `json:"hive_id" validate:"required"`
}

// Validate validates the query
func (q GetHiveQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.HiveID == "" {
		return errors.New("hive ID is required")
	}
	return nil
}

// GetHiveHandler handles the GetHiveQuery. Reading a manifest is also when
// its history lists get compacted: entries older than the retention window
// accumulate while a hive is idle, and trimming them lazily on read keeps the
// write path free of bookkeeping. The repaired manifest is persisted only
// when something was actually trimmed.
type GetHiveHandler struct {
	manifests   ports.ManifestRepository
	historyDays int
	logger      *zap.Logger
}

// NewGetHiveHandler creates a new handler instance
func NewGetHiveHandler(manifests ports.ManifestRepository, historyDays int, logger *zap.Logger) *GetHiveHandler {
	return &GetHiveHandler{
		manifests:   manifests,
		historyDays: historyDays,
		logger:      logger,
	}
}

// Handle executes the get hive query
func (h *GetHiveHandler) Handle(ctx context.Context, query GetHiveQuery) (*dto.ManifestDTO, error) {
	manifest, err := h.manifests.Get(ctx, query.HiveID)
	if err != nil {
		return nil, err
	}

	if manifest.Compact(h.historyDays) {
		if err := h.manifests.Replace(ctx, manifest); err != nil {
			// The read result is still correct; compaction retries next time.
			h.logger.Warn("Failed to persist compacted manifest",
				zap.String("hiveID", query.HiveID),
				zap.Error(err),
			)
		}
	}

	result := dto.NewManifestDTO(manifest, time.Now().UTC(), h.historyDays)
	return &result, nil
}
