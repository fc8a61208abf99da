package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/domain/hive"
	apperrors "hivemind/pkg/errors"
)

// DeleteOutcome is the result of a delete-last-item attempt. Denials are
// ordinary outcomes, not errors: the client shows the reason and the stamp
// stays on the user record.
type DeleteOutcome string

const (
	// OutcomeDeleted means the stamped item(s) were removed and the stamp cleared.
	OutcomeDeleted DeleteOutcome = "deleted"
	// OutcomeMissing means a stamped item no longer exists; the stale stamp is cleared.
	OutcomeMissing DeleteOutcome = "missing"
	// OutcomeRespondedTo means another user has responded to a stamped item.
	OutcomeRespondedTo DeleteOutcome = "responded_to"
	// OutcomeConnectedTo means the stamped point has grown other synapses.
	OutcomeConnectedTo DeleteOutcome = "connected_to"
)

// DeleteResult carries the outcome back to the caller.
type DeleteResult struct {
	Outcome DeleteOutcome
}

// DeleteLastItemCommand undoes the user's most recent create, if it is still
// safe to do so. The stamp on the user record names what may be deleted.
type DeleteLastItemCommand struct {
	UserID string `json:"user_id" validate:"required"`

	Result *DeleteResult `json:"-"`
}

// Validate validates the command
func (cmd DeleteLastItemCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// DeleteLastItemHandler handles the DeleteLastItemCommand
type DeleteLastItemHandler struct {
	points    ports.PointRepository
	synapses  ports.SynapseRepository
	manifests ports.ManifestRepository
	users     ports.UserRepository
	logger    *zap.Logger
}

// NewDeleteLastItemHandler creates a new handler instance
func NewDeleteLastItemHandler(
	points ports.PointRepository,
	synapses ports.SynapseRepository,
	manifests ports.ManifestRepository,
	users ports.UserRepository,
	logger *zap.Logger,
) *DeleteLastItemHandler {
	return &DeleteLastItemHandler{
		points:    points,
		synapses:  synapses,
		manifests: manifests,
		users:     users,
		logger:    logger,
	}
}

// Handle executes the delete last item command
func (h *DeleteLastItemHandler) Handle(ctx context.Context, cmd DeleteLastItemCommand) error {
	account, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if account.LastCreatedItem == "" {
		return apperrors.NewValidationError("nothing to undo")
	}

	stamp, err := hive.DecodeStamp(account.LastCreatedItem)
	if err != nil {
		// A stamp we cannot read is useless; drop it rather than wedge undo.
		h.logger.Warn("Clearing unreadable stamp",
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
		if err := h.users.SetLastCreatedItem(ctx, cmd.UserID, ""); err != nil {
			return err
		}
		return h.finish(cmd, OutcomeMissing)
	}

	var (
		point      *hive.Point
		pointRef   hive.ItemRef
		synapse    *hive.Synapse
		synapseRef hive.ItemRef
	)

	if stamp.PointID != "" {
		pointRef, err = hive.ParseItemRef(stamp.PointID)
		if err != nil {
			return apperrors.NewInternalError("malformed stamp").WithCause(err)
		}
		point, err = h.points.Get(ctx, pointRef)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return h.clearAndFinish(ctx, cmd, OutcomeMissing)
			}
			return err
		}
	}
	if stamp.SynapseID != "" {
		synapseRef, err = hive.ParseItemRef(stamp.SynapseID)
		if err != nil {
			return apperrors.NewInternalError("malformed stamp").WithCause(err)
		}
		synapse, err = h.synapses.Get(ctx, synapseRef)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return h.clearAndFinish(ctx, cmd, OutcomeMissing)
			}
			return err
		}
	}

	// Someone else's response pins the item in place.
	if point != nil && respondedByOther(point.Responses, cmd.UserID) {
		return h.finish(cmd, OutcomeRespondedTo)
	}
	if synapse != nil && respondedByOther(synapse.Responses, cmd.UserID) {
		return h.finish(cmd, OutcomeRespondedTo)
	}

	// Removing the point is safe only if it would be dangling once its own
	// stamped synapse is discounted.
	if point != nil {
		adjacent, err := h.synapses.Adjacent(ctx, pointRef.Namespace().SynapseCollection(), point.ID)
		if err != nil {
			return err
		}
		others := 0
		for _, adj := range adjacent {
			if synapse == nil || adj.ID != synapse.ID {
				others++
			}
		}
		if !hive.Dangling(others) {
			return h.finish(cmd, OutcomeConnectedTo)
		}
	}

	if synapse != nil {
		if err := h.synapses.Remove(ctx, synapseRef); err != nil {
			return err
		}
	}
	if point != nil {
		if err := h.points.Remove(ctx, pointRef); err != nil {
			return err
		}
	}

	points := 0
	if point != nil {
		points = 1
	}
	if err := h.manifests.DecrementTotals(ctx, stamp.HiveID, points, 1); err != nil {
		return err
	}

	return h.clearAndFinish(ctx, cmd, OutcomeDeleted)
}

func (h *DeleteLastItemHandler) clearAndFinish(ctx context.Context, cmd DeleteLastItemCommand, outcome DeleteOutcome) error {
	if err := h.users.SetLastCreatedItem(ctx, cmd.UserID, ""); err != nil {
		return err
	}
	return h.finish(cmd, outcome)
}

func (h *DeleteLastItemHandler) finish(cmd DeleteLastItemCommand, outcome DeleteOutcome) error {
	if cmd.Result != nil {
		cmd.Result.Outcome = outcome
	}
	return nil
}

// respondedByOther reports whether anyone but owner has responded.
func respondedByOther(responses hive.ResponseList, owner string) bool {
	for _, r := range responses {
		if r.UserID != owner {
			return true
		}
	}
	return false
}
