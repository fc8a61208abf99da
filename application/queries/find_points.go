package queries

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"hivemind/application/dto"
	"hivemind/application/ports"
)

// FindPointsQuery searches a hive's points by label text.
type FindPointsQuery struct {
	UserID string `json:"user_id" validate:"required"`
	HiveID string `json:"hive_id" validate:"required"`
	Phrase string `json:"phrase" validate:"required"`
}

// Validate validates the query
func (q FindPointsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.HiveID == "" {
		return errors.New("hive ID is required")
	}
	if q.Phrase == "" {
		return errors.New("search phrase is required")
	}
	return nil
}

// FindPointsHandler handles the FindPointsQuery
type FindPointsHandler struct {
	manifests ports.ManifestRepository
	points    ports.PointRepository
	logger    *zap.Logger
}

// NewFindPointsHandler creates a new handler instance
func NewFindPointsHandler(
	manifests ports.ManifestRepository,
	points ports.PointRepository,
	logger *zap.Logger,
) *FindPointsHandler {
	return &FindPointsHandler{
		manifests: manifests,
		points:    points,
		logger:    logger,
	}
}

// Handle executes the find points query
func (h *FindPointsHandler) Handle(ctx context.Context, query FindPointsQuery) ([]dto.PointDTO, error) {
	manifest, err := h.manifests.Get(ctx, query.HiveID)
	if err != nil {
		return nil, err
	}

	matches, err := h.points.Search(ctx, manifest.Namespace.ViewName(), query.Phrase)
	if err != nil {
		return nil, err
	}

	results := make([]dto.PointDTO, 0, len(matches))
	for _, p := range matches {
		results = append(results, dto.NewPointDTO(p, query.UserID, manifest.TotalParticipation))
	}
	return results, nil
}
