package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/domain/user"
)

// SaveHiveCommand puts a hive on the user's yard.
type SaveHiveCommand struct {
	UserID string `json:"user_id" validate:"required"`
	HiveID string `json:"hive_id" validate:"required"`
}

// Validate validates the command
func (cmd SaveHiveCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.HiveID == "" {
		return errors.New("hive ID is required")
	}
	return nil
}

// ForgetHiveCommand removes a hive from the user's yard. The hive itself is
// untouched.
type ForgetHiveCommand struct {
	UserID string `json:"user_id" validate:"required"`
	HiveID string `json:"hive_id" validate:"required"`
}

// Validate validates the command
func (cmd ForgetHiveCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.HiveID == "" {
		return errors.New("hive ID is required")
	}
	return nil
}

// SavedHiveHandler handles both yard-membership commands.
type SavedHiveHandler struct {
	manifests ports.ManifestRepository
	saved     ports.SavedHiveRepository
	logger    *zap.Logger
}

// NewSavedHiveHandler creates a new handler instance
func NewSavedHiveHandler(
	manifests ports.ManifestRepository,
	saved ports.SavedHiveRepository,
	logger *zap.Logger,
) *SavedHiveHandler {
	return &SavedHiveHandler{
		manifests: manifests,
		saved:     saved,
		logger:    logger,
	}
}

// HandleSave executes the save hive command
func (h *SavedHiveHandler) HandleSave(ctx context.Context, cmd SaveHiveCommand) error {
	if _, err := h.manifests.Get(ctx, cmd.HiveID); err != nil {
		return err
	}
	return h.saved.Add(ctx, &user.SavedHive{
		From:      cmd.UserID,
		To:        cmd.HiveID,
		Ownership: user.OwnershipSaved,
	})
}

// HandleForget executes the forget hive command
func (h *SavedHiveHandler) HandleForget(ctx context.Context, cmd ForgetHiveCommand) error {
	return h.saved.Remove(ctx, cmd.UserID, cmd.HiveID)
}
