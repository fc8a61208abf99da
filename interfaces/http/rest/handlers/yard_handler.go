package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hivemind/application/commands"
	"hivemind/application/commands/bus"
	"hivemind/application/queries"
	querybus "hivemind/application/queries/bus"
	"hivemind/pkg/auth"
	"hivemind/pkg/common"
	"hivemind/pkg/utils"
)

// YardHandler handles hive lifecycle and yard listing operations
type YardHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewYardHandler creates a new yard handler
func NewYardHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *YardHandler {
	return &YardHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateHiveRequest represents the request body for creating a hive. A seed
// label becomes the hive's first point; seeded hives require every later
// point to anchor to an existing one.
type CreateHiveRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Seed        string `json:"seed,omitempty" validate:"omitempty,max=500"`
}

// CreateHiveResponse represents the response for creating a hive
type CreateHiveResponse struct {
	HiveID      string `json:"hiveId"`
	SeedPointID string `json:"seedPointId,omitempty"`
}

// CreateHive handles POST /yard/hive
func (h *YardHandler) CreateHive(w http.ResponseWriter, r *http.Request) {
	var req CreateHiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.CreateHiveCommand{
		UserID:      userCtx.UserID,
		Title:       req.Title,
		Description: req.Description,
		Seed:        req.Seed,
		Result:      &commands.CreateHiveResult{},
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create hive",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to create hive")
		return
	}

	response := CreateHiveResponse{HiveID: cmd.Result.Manifest.ID}
	if cmd.Result.Seed != nil {
		response.SeedPointID = cmd.Result.Seed.ID
	}
	respondJSON(w, h.logger, http.StatusCreated, response)
}

// GetHive handles GET /yard/hive/{hiveID}
func (h *YardHandler) GetHive(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.GetHiveQuery{
		UserID: userCtx.UserID,
		HiveID: chi.URLParam(r, "hiveID"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get hive",
			zap.String("userID", userCtx.UserID),
			zap.String("hiveID", query.HiveID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to get hive")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ListYard handles GET /yard
func (h *YardHandler) ListYard(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)
	query := queries.LoadYardQuery{
		UserID:  userCtx.UserID,
		Page:    params.Page,
		PerPage: params.PageSize,
		Sort:    params.Sort,
		Order:   params.Order,
		Search:  r.URL.Query().Get("q"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list yard",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to list hives")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ListSaved handles GET /yard/saved
func (h *YardHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.ListSavedQuery{UserID: userCtx.UserID}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list saved hives",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to list saved hives")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// SaveHive handles POST /yard/saved/{hiveID}
func (h *YardHandler) SaveHive(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.SaveHiveCommand{
		UserID: userCtx.UserID,
		HiveID: chi.URLParam(r, "hiveID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to save hive",
			zap.String("userID", userCtx.UserID),
			zap.String("hiveID", cmd.HiveID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to save hive")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ForgetHive handles DELETE /yard/saved/{hiveID}
func (h *YardHandler) ForgetHive(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.ForgetHiveCommand{
		UserID: userCtx.UserID,
		HiveID: chi.URLParam(r, "hiveID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to forget hive",
			zap.String("userID", userCtx.UserID),
			zap.String("hiveID", cmd.HiveID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to forget hive")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
