package queries

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"hivemind/application/dto"
	"hivemind/application/ports"
	"hivemind/domain/hive"
	apperrors "hivemind/pkg/errors"
)

// SubgraphDepth bounds how many hops a neighborhood reaches from its origin.
const SubgraphDepth = 5

// LoadSubgraphQuery fetches the bounded neighborhood around one point.
type LoadSubgraphQuery struct {
	UserID   string `json:"user_id" validate:"required"`
	HiveID   string `json:"hive_id" validate:"required"`
	OriginID string `json:"origin_id" validate:"required"`
}

// Validate validates the query
func (q LoadSubgraphQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.HiveID == "" {
		return errors.New("hive ID is required")
	}
	if q.OriginID == "" {
		return errors.New("origin ID is required")
	}
	return nil
}

// LoadSubgraphHandler handles the LoadSubgraphQuery
type LoadSubgraphHandler struct {
	manifests ports.ManifestRepository
	points    ports.PointRepository
	traverser ports.Traverser
	logger    *zap.Logger
}

// NewLoadSubgraphHandler creates a new handler instance
func NewLoadSubgraphHandler(
	manifests ports.ManifestRepository,
	points ports.PointRepository,
	traverser ports.Traverser,
	logger *zap.Logger,
) *LoadSubgraphHandler {
	return &LoadSubgraphHandler{
		manifests: manifests,
		points:    points,
		traverser: traverser,
		logger:    logger,
	}
}

// Handle executes the load subgraph query
func (h *LoadSubgraphHandler) Handle(ctx context.Context, query LoadSubgraphQuery) (*dto.SubgraphDTO, error) {
	manifest, err := h.manifests.Get(ctx, query.HiveID)
	if err != nil {
		return nil, err
	}

	ref, err := hive.ParseItemRef(query.OriginID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if ref.Kind != hive.KindPoint {
		return nil, apperrors.NewValidationError("subgraph origin must be a point")
	}
	if ref.Namespace() != manifest.Namespace {
		return nil, apperrors.NewValidationError("origin belongs to a different hive")
	}
	if _, err := h.points.Get(ctx, ref); err != nil {
		return nil, err
	}

	pairs, err := h.traverser.Subgraph(ctx, manifest.Namespace.GraphName(), query.OriginID, SubgraphDepth)
	if err != nil {
		return nil, err
	}

	// A vertex can be reached along several paths; the first occurrence wins.
	result := &dto.SubgraphDTO{
		Origin:   query.OriginID,
		Points:   []dto.PointDTO{},
		Synapses: []dto.SynapseDTO{},
	}
	seenPoints := make(map[string]bool)
	seenSynapses := make(map[string]bool)
	total := manifest.TotalParticipation

	for _, pair := range pairs {
		if pair.Point != nil && !seenPoints[pair.Point.ID] {
			seenPoints[pair.Point.ID] = true
			result.Points = append(result.Points, dto.NewPointDTO(pair.Point, query.UserID, total))
		}
		if pair.Synapse != nil && !seenSynapses[pair.Synapse.ID] {
			seenSynapses[pair.Synapse.ID] = true
			result.Synapses = append(result.Synapses, dto.NewSynapseDTO(pair.Synapse, query.UserID, total))
		}
	}

	return result, nil
}
