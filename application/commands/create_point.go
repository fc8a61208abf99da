// Package commands contains the write-side operations of the debate graph.
// Each file pairs a command with its handler; commands carry a Result pointer
// the handler fills in, so the HTTP layer can respond with created identities.
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

// CreatePointResult carries the created items back to the caller.
type CreatePointResult struct {
	Point   *hive.Point
	Synapse *hive.Synapse // set when the point was anchored to an existing one
}

// CreatePointCommand creates a point, optionally anchored to an existing
// point by a new synapse. FromID anchors the new point as the target of the
// synapse; ToID anchors it as the source. At most one of the two may be set.
type CreatePointCommand struct {
	UserID string   `json:"user_id" validate:"required"`
	HiveID string   `json:"hive_id" validate:"required"`
	Label  string   `json:"label" validate:"required,min=1,max=500"`
	Links  []string `json:"links,omitempty"`
	Type   string   `json:"type,omitempty" validate:"omitempty,oneof=statement question"`
	FromID string   `json:"from_id,omitempty"`
	ToID   string   `json:"to_id,omitempty"`

	Result *CreatePointResult `json:"-"`
}

// Validate validates the command
func (cmd CreatePointCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.HiveID == "" {
		return errors.New("hive ID is required")
	}
	if cmd.Label == "" {
		return errors.New("label is required")
	}
	if len(cmd.Label) > MaxLabelLength {
		return errors.New("label exceeds maximum length")
	}
	if cmd.FromID != "" && cmd.ToID != "" {
		return errors.New("a point can be anchored from one side only")
	}
	return nil
}

const MaxLabelLength = 500

// CreatePointHandler handles the CreatePointCommand
type CreatePointHandler struct {
	points    ports.PointRepository
	synapses  ports.SynapseRepository
	manifests ports.ManifestRepository
	users     ports.UserRepository
	tracker   *services.ParticipationTracker
	logger    *zap.Logger
}

// NewCreatePointHandler creates a new handler instance
func NewCreatePointHandler(
	points ports.PointRepository,
	synapses ports.SynapseRepository,
	manifests ports.ManifestRepository,
	users ports.UserRepository,
	tracker *services.ParticipationTracker,
	logger *zap.Logger,
) *CreatePointHandler {
	return &CreatePointHandler{
		points:    points,
		synapses:  synapses,
		manifests: manifests,
		users:     users,
		tracker:   tracker,
		logger:    logger,
	}
}

// Handle executes the create point command
func (h *CreatePointHandler) Handle(ctx context.Context, cmd CreatePointCommand) error {
	manifest, err := h.manifests.Get(ctx, cmd.HiveID)
	if err != nil {
		return err
	}
	ns := manifest.Namespace

	if err := hive.ValidateLinks(cmd.Links); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	anchorID := cmd.FromID
	if anchorID == "" {
		anchorID = cmd.ToID
	}

	var anchor *hive.Point
	if anchorID != "" {
		ref, err := hive.ParseItemRef(anchorID)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if ref.Kind != hive.KindPoint {
			return apperrors.NewValidationError("anchor must be a point")
		}
		if ref.Namespace() != ns {
			return apperrors.NewValidationError("anchor belongs to a different hive")
		}
		anchor, err = h.points.Get(ctx, ref)
		if err != nil {
			return err
		}
	} else if !manifest.AllowDanglingPoints && manifest.TotalPoints > 0 {
		// The first point of a hive has nothing to anchor to yet.
		return apperrors.NewValidationError("hive does not allow dangling points")
	}

	now := time.Now().UTC()
	pointType := hive.PointType(cmd.Type)
	if pointType == "" {
		pointType = hive.TypeStatement
	}

	point, err := h.points.Create(ctx, ns.PointCollection(), &hive.Point{
		Label:       cmd.Label,
		Links:       cmd.Links,
		Type:        pointType,
		DateCreated: now,
		Responses:   hive.ResponseList{},
	})
	if err != nil {
		return err
	}

	var synapse *hive.Synapse
	if anchor != nil {
		edge := &hive.Synapse{
			DateCreated: now,
			Responses:   hive.ResponseList{},
		}
		if cmd.FromID != "" {
			edge.From, edge.To = anchor.ID, point.ID
		} else {
			edge.From, edge.To = point.ID, anchor.ID
		}
		synapse, err = h.synapses.Create(ctx, ns.SynapseCollection(), edge)
		if err != nil {
			return err
		}
	}

	var stamp hive.Stamp
	if synapse != nil {
		stamp = hive.ForLinked(cmd.HiveID, point.ID, synapse.ID)
	} else {
		stamp = hive.ForPoint(cmd.HiveID, point.ID)
	}
	if err := h.users.SetLastCreatedItem(ctx, cmd.UserID, stamp.Encode()); err != nil {
		return err
	}

	if err := h.tracker.MarkPointCreated(ctx, cmd.HiveID, now); err != nil {
		return err
	}
	if err := h.tracker.MarkParticipant(ctx, cmd.UserID, cmd.HiveID, now); err != nil {
		return err
	}

	if cmd.Result != nil {
		cmd.Result.Point = point
		cmd.Result.Synapse = synapse
	}
	return nil
}
