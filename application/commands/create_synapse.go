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

// CreateSynapseResult carries the created synapse back to the caller. The
// synapse is nil when the exact directed pair already existed; duplicate
// creation is a no-op, not an error.
type CreateSynapseResult struct {
	Synapse   *hive.Synapse
	Duplicate bool
}

// CreateSynapseCommand connects two existing points with a directed synapse.
type CreateSynapseCommand struct {
	UserID string `json:"user_id" validate:"required"`
	HiveID string `json:"hive_id" validate:"required"`
	FromID string `json:"from_id" validate:"required"`
	ToID   string `json:"to_id" validate:"required"`

	Result *CreateSynapseResult `json:"-"`
}

// Validate validates the command
func (cmd CreateSynapseCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.HiveID == "" {
		return errors.New("hive ID is required")
	}
	if cmd.FromID == "" || cmd.ToID == "" {
		return errors.New("both endpoints are required")
	}
	if cmd.FromID == cmd.ToID {
		return errors.New("a synapse cannot connect a point to itself")
	}
	return nil
}

// CreateSynapseHandler handles the CreateSynapseCommand
type CreateSynapseHandler struct {
	points    ports.PointRepository
	synapses  ports.SynapseRepository
	manifests ports.ManifestRepository
	users     ports.UserRepository
	tracker   *services.ParticipationTracker
	logger    *zap.Logger
}

// NewCreateSynapseHandler creates a new handler instance
func NewCreateSynapseHandler(
	points ports.PointRepository,
	synapses ports.SynapseRepository,
	manifests ports.ManifestRepository,
	users ports.UserRepository,
	tracker *services.ParticipationTracker,
	logger *zap.Logger,
) *CreateSynapseHandler {
	return &CreateSynapseHandler{
		points:    points,
		synapses:  synapses,
		manifests: manifests,
		users:     users,
		tracker:   tracker,
		logger:    logger,
	}
}

// Handle executes the create synapse command
func (h *CreateSynapseHandler) Handle(ctx context.Context, cmd CreateSynapseCommand) error {
	manifest, err := h.manifests.Get(ctx, cmd.HiveID)
	if err != nil {
		return err
	}
	ns := manifest.Namespace

	fromRef, err := h.pointRef(cmd.FromID, ns)
	if err != nil {
		return err
	}
	toRef, err := h.pointRef(cmd.ToID, ns)
	if err != nil {
		return err
	}

	if _, err := h.points.Get(ctx, fromRef); err != nil {
		return err
	}
	if _, err := h.points.Get(ctx, toRef); err != nil {
		return err
	}

	existing, err := h.synapses.FindBetween(ctx, ns.SynapseCollection(), cmd.FromID, cmd.ToID)
	if err != nil {
		return err
	}
	if existing != nil {
		h.logger.Debug("Synapse already exists",
			zap.String("from", cmd.FromID),
			zap.String("to", cmd.ToID),
		)
		if cmd.Result != nil {
			cmd.Result.Duplicate = true
		}
		return nil
	}

	now := time.Now().UTC()
	synapse, err := h.synapses.Create(ctx, ns.SynapseCollection(), &hive.Synapse{
		From:        cmd.FromID,
		To:          cmd.ToID,
		DateCreated: now,
		Responses:   hive.ResponseList{},
	})
	if err != nil {
		return err
	}

	stamp := hive.ForSynapse(cmd.HiveID, synapse.ID)
	if err := h.users.SetLastCreatedItem(ctx, cmd.UserID, stamp.Encode()); err != nil {
		return err
	}

	if err := h.tracker.MarkParticipant(ctx, cmd.UserID, cmd.HiveID, now); err != nil {
		return err
	}

	if cmd.Result != nil {
		cmd.Result.Synapse = synapse
	}
	return nil
}

// pointRef parses an endpoint id and checks it names a point in the hive.
func (h *CreateSynapseHandler) pointRef(id string, ns hive.Namespace) (hive.ItemRef, error) {
	ref, err := hive.ParseItemRef(id)
	if err != nil {
		return hive.ItemRef{}, apperrors.NewValidationError(err.Error())
	}
	if ref.Kind != hive.KindPoint {
		return hive.ItemRef{}, apperrors.NewValidationError("synapse endpoints must be points")
	}
	if ref.Namespace() != ns {
		return hive.ItemRef{}, apperrors.NewValidationError("endpoint belongs to a different hive")
	}
	return ref, nil
}
