package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/application/services"
	"hivemind/domain/hive"
	apperrors "hivemind/pkg/errors"
)

// RespondResult carries the updated item back to the caller, together with
// the participation total needed to compute its consensus view.
type RespondResult struct {
	Point              *hive.Point
	Synapse            *hive.Synapse
	TotalParticipation int
}

// RespondCommand records one user's agree/disagree stance on a point or
// synapse. A repeat response by the same user overwrites the earlier one in
// place; a user never holds more than one response per item.
type RespondCommand struct {
	UserID string `json:"user_id" validate:"required"`
	HiveID string `json:"hive_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
	Agrees bool   `json:"agrees"`

	Result *RespondResult `json:"-"`
}

// Validate validates the command
func (cmd RespondCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.HiveID == "" {
		return errors.New("hive ID is required")
	}
	if cmd.ItemID == "" {
		return errors.New("item ID is required")
	}
	return nil
}

// RespondHandler handles the RespondCommand
type RespondHandler struct {
	points    ports.PointRepository
	synapses  ports.SynapseRepository
	manifests ports.ManifestRepository
	tracker   *services.ParticipationTracker
	logger    *zap.Logger
}

// NewRespondHandler creates a new handler instance
func NewRespondHandler(
	points ports.PointRepository,
	synapses ports.SynapseRepository,
	manifests ports.ManifestRepository,
	tracker *services.ParticipationTracker,
	logger *zap.Logger,
) *RespondHandler {
	return &RespondHandler{
		points:    points,
		synapses:  synapses,
		manifests: manifests,
		tracker:   tracker,
		logger:    logger,
	}
}

// Handle executes the respond command
func (h *RespondHandler) Handle(ctx context.Context, cmd RespondCommand) error {
	manifest, err := h.manifests.Get(ctx, cmd.HiveID)
	if err != nil {
		return err
	}

	ref, err := hive.ParseItemRef(cmd.ItemID)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if ref.Namespace() != manifest.Namespace {
		return apperrors.NewValidationError("item belongs to a different hive")
	}

	now := time.Now().UTC()
	var (
		point   *hive.Point
		synapse *hive.Synapse
	)
	switch ref.Kind {
	case hive.KindPoint:
		point, err = h.points.Get(ctx, ref)
		if err != nil {
			return err
		}
		point.Responses = point.Responses.Upsert(cmd.UserID, cmd.Agrees, now)
		if err := h.points.Replace(ctx, ref, point); err != nil {
			return err
		}
	case hive.KindSynapse:
		synapse, err = h.synapses.Get(ctx, ref)
		if err != nil {
			return err
		}
		synapse.Responses = synapse.Responses.Upsert(cmd.UserID, cmd.Agrees, now)
		if err := h.synapses.Replace(ctx, ref, synapse); err != nil {
			return err
		}
	}

	if err := h.tracker.MarkParticipant(ctx, cmd.UserID, cmd.HiveID, now); err != nil {
		return err
	}

	if cmd.Result != nil {
		// Re-read the manifest: marking participation may have moved the total.
		manifest, err = h.manifests.Get(ctx, cmd.HiveID)
		if err != nil {
			return err
		}
		cmd.Result.Point = point
		cmd.Result.Synapse = synapse
		cmd.Result.TotalParticipation = manifest.TotalParticipation
	}
	return nil
}
