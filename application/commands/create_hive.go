package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/application/services"
	"hivemind/domain/hive"
	"hivemind/domain/user"
	apperrors "hivemind/pkg/errors"
)

// CreateHiveResult carries the created manifest back to the caller, together
// with the seed point when one was requested.
type CreateHiveResult struct {
	Manifest *hive.Manifest
	Seed     *hive.Point
}

// CreateHiveCommand provisions a new hive: a fresh namespace with its graph
// and search view, plus the manifest that makes the hive visible on the yard.
// The manifest is written last, so a partially provisioned hive is never
// listed; provisioning failures tear down whatever was already created.
// A non-empty Seed becomes the hive's first point, and a seeded hive requires
// every later point to anchor to an existing one.
type CreateHiveCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Seed        string `json:"seed,omitempty" validate:"omitempty,max=500"`

	Result *CreateHiveResult `json:"-"`
}

// Validate validates the command
func (cmd CreateHiveCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if len(cmd.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	if len(cmd.Description) > MaxDescriptionLength {
		return errors.New("description exceeds maximum length")
	}
	if len(cmd.Seed) > MaxLabelLength {
		return errors.New("seed exceeds maximum length")
	}
	return nil
}

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// CreateHiveHandler handles the CreateHiveCommand
type CreateHiveHandler struct {
	manifests   ports.ManifestRepository
	saved       ports.SavedHiveRepository
	users       ports.UserRepository
	provisioner ports.Provisioner
	points      *CreatePointHandler
	tracker     *services.ParticipationTracker
	logger      *zap.Logger
}

// NewCreateHiveHandler creates a new handler instance
func NewCreateHiveHandler(
	manifests ports.ManifestRepository,
	saved ports.SavedHiveRepository,
	users ports.UserRepository,
	provisioner ports.Provisioner,
	points *CreatePointHandler,
	tracker *services.ParticipationTracker,
	logger *zap.Logger,
) *CreateHiveHandler {
	return &CreateHiveHandler{
		manifests:   manifests,
		saved:       saved,
		users:       users,
		provisioner: provisioner,
		points:      points,
		tracker:     tracker,
		logger:      logger,
	}
}

// Handle executes the create hive command
func (h *CreateHiveHandler) Handle(ctx context.Context, cmd CreateHiveCommand) error {
	ns := hive.NewNamespace()

	if err := h.provisioner.CreateGraph(ctx, ns.GraphName(), ns.PointCollection(), ns.SynapseCollection()); err != nil {
		return apperrors.Wrap(err, "provision hive graph")
	}

	if err := h.provisioner.CreateSearchView(ctx, ns.ViewName(), ns.PointCollection(), "Label"); err != nil {
		h.compensate(ctx, ns, false)
		return apperrors.Wrap(err, "provision hive search view")
	}

	now := time.Now().UTC()
	manifest, err := h.manifests.Create(ctx, &hive.Manifest{
		Namespace:           ns,
		Title:               cmd.Title,
		Description:         cmd.Description,
		DateCreated:         now,
		AllowDanglingPoints: cmd.Seed == "",
		DailyParticipation:  []hive.DayBucket{},
		DailyPointCount:     []hive.DayBucket{},
	})
	if err != nil {
		h.compensate(ctx, ns, true)
		return apperrors.Wrap(err, "create hive manifest")
	}

	var seed *hive.Point
	if cmd.Seed != "" {
		seedCmd := CreatePointCommand{
			UserID: cmd.UserID,
			HiveID: manifest.ID,
			Label:  cmd.Seed,
			Result: &CreatePointResult{},
		}
		if err := h.points.Handle(ctx, seedCmd); err != nil {
			return apperrors.Wrap(err, "create seed point")
		}
		seed = seedCmd.Result.Point
	}

	// The creator keeps their own hive on the yard, starts working in it, and
	// counts as its first participant.
	if err := h.saved.Add(ctx, &user.SavedHive{
		From:      cmd.UserID,
		To:        manifest.ID,
		Ownership: user.OwnershipCreator,
	}); err != nil {
		return err
	}
	if err := h.users.SetCurrentHive(ctx, cmd.UserID, manifest.ID); err != nil {
		return err
	}
	if err := h.tracker.MarkParticipant(ctx, cmd.UserID, manifest.ID, now); err != nil {
		return err
	}

	h.logger.Info("Hive created",
		zap.String("hiveID", manifest.ID),
		zap.String("namespace", ns.String()),
		zap.String("userID", cmd.UserID),
	)

	if cmd.Result != nil {
		cmd.Result.Manifest = manifest
		cmd.Result.Seed = seed
	}
	return nil
}

// compensate tears down partial provisioning in reverse order. Failures are
// logged and otherwise ignored; the original error is what the caller sees.
func (h *CreateHiveHandler) compensate(ctx context.Context, ns hive.Namespace, dropView bool) {
	if dropView {
		if err := h.provisioner.DropView(ctx, ns.ViewName()); err != nil {
			h.logger.Error("Failed to drop view during compensation",
				zap.String("view", ns.ViewName()),
				zap.Error(err),
			)
		}
	}
	if err := h.provisioner.DropGraph(ctx, ns.GraphName()); err != nil {
		h.logger.Error("Failed to drop graph during compensation",
			zap.String("graph", ns.GraphName()),
			zap.Error(err),
		)
	}
}
