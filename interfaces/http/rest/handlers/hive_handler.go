package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hivemind/application/commands"
	"hivemind/application/commands/bus"
	"hivemind/application/dto"
	"hivemind/application/queries"
	querybus "hivemind/application/queries/bus"
	"hivemind/pkg/auth"
	"hivemind/pkg/utils"
)

// HiveHandler handles graph operations inside a hive
type HiveHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewHiveHandler creates a new hive handler
func NewHiveHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *HiveHandler {
	return &HiveHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreatePointRequest represents the request body for creating a point
type CreatePointRequest struct {
	HiveID string   `json:"hiveId" validate:"required"`
	Label  string   `json:"label" validate:"required,min=1,max=500"`
	Links  []string `json:"links,omitempty"`
	Type   string   `json:"type,omitempty" validate:"omitempty,oneof=statement question"`
	FromID string   `json:"fromId,omitempty"`
	ToID   string   `json:"toId,omitempty"`
}

// CreatePointResponse represents the response for creating a point
type CreatePointResponse struct {
	PointID   string `json:"pointId"`
	SynapseID string `json:"synapseId,omitempty"`
}

// CreatePoint handles POST /hive/point
func (h *HiveHandler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var req CreatePointRequest
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

	cmd := commands.CreatePointCommand{
		UserID: userCtx.UserID,
		HiveID: req.HiveID,
		Label:  req.Label,
		Links:  req.Links,
		Type:   req.Type,
		FromID: req.FromID,
		ToID:   req.ToID,
		Result: &commands.CreatePointResult{},
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create point",
			zap.String("userID", userCtx.UserID),
			zap.String("hiveID", req.HiveID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to create point")
		return
	}

	response := CreatePointResponse{PointID: cmd.Result.Point.ID}
	if cmd.Result.Synapse != nil {
		response.SynapseID = cmd.Result.Synapse.ID
	}
	respondJSON(w, h.logger, http.StatusCreated, response)
}

// CreateSynapseRequest represents the request body for creating a synapse
type CreateSynapseRequest struct {
	HiveID string `json:"hiveId" validate:"required"`
	FromID string `json:"fromId" validate:"required"`
	ToID   string `json:"toId" validate:"required"`
}

// CreateSynapseResponse represents the response for creating a synapse
type CreateSynapseResponse struct {
	SynapseID string `json:"synapseId,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// CreateSynapse handles POST /hive/synapse
func (h *HiveHandler) CreateSynapse(w http.ResponseWriter, r *http.Request) {
	var req CreateSynapseRequest
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

	cmd := commands.CreateSynapseCommand{
		UserID: userCtx.UserID,
		HiveID: req.HiveID,
		FromID: req.FromID,
		ToID:   req.ToID,
		Result: &commands.CreateSynapseResult{},
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create synapse",
			zap.String("userID", userCtx.UserID),
			zap.String("hiveID", req.HiveID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to create synapse")
		return
	}

	if cmd.Result.Duplicate {
		respondJSON(w, h.logger, http.StatusOK, CreateSynapseResponse{Duplicate: true})
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, CreateSynapseResponse{SynapseID: cmd.Result.Synapse.ID})
}

// RespondRequest represents the request body for responding to an item
type RespondRequest struct {
	HiveID string `json:"hiveId" validate:"required"`
	ItemID string `json:"itemId" validate:"required"`
	Agrees bool   `json:"agrees"`
}

// Respond handles POST /hive/respond
func (h *HiveHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
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

	cmd := commands.RespondCommand{
		UserID: userCtx.UserID,
		HiveID: req.HiveID,
		ItemID: req.ItemID,
		Agrees: req.Agrees,
		Result: &commands.RespondResult{},
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to record response",
			zap.String("userID", userCtx.UserID),
			zap.String("itemID", req.ItemID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to record response")
		return
	}

	if cmd.Result.Point != nil {
		respondJSON(w, h.logger, http.StatusOK,
			dto.NewPointDTO(cmd.Result.Point, userCtx.UserID, cmd.Result.TotalParticipation))
		return
	}
	respondJSON(w, h.logger, http.StatusOK,
		dto.NewSynapseDTO(cmd.Result.Synapse, userCtx.UserID, cmd.Result.TotalParticipation))
}

// GetSubgraph handles GET /hive/subgraph
func (h *HiveHandler) GetSubgraph(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.LoadSubgraphQuery{
		UserID:   userCtx.UserID,
		HiveID:   r.URL.Query().Get("hive"),
		OriginID: r.URL.Query().Get("origin"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to load subgraph",
			zap.String("userID", userCtx.UserID),
			zap.String("origin", query.OriginID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to load subgraph")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// SearchPoints handles GET /hive/search
func (h *HiveHandler) SearchPoints(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.FindPointsQuery{
		UserID: userCtx.UserID,
		HiveID: r.URL.Query().Get("hive"),
		Phrase: r.URL.Query().Get("q"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search points",
			zap.String("userID", userCtx.UserID),
			zap.String("hiveID", query.HiveID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to search points")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// DeleteLastItemResponse reports the outcome of an undo attempt
type DeleteLastItemResponse struct {
	Outcome string `json:"outcome"`
}

// DeleteLastItem handles DELETE /hive/last-item. Unlike older variants of
// this API the request carries no stamp; the server-side stamp on the user
// record is the only authority over what may be undone.
func (h *HiveHandler) DeleteLastItem(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.DeleteLastItemCommand{
		UserID: userCtx.UserID,
		Result: &commands.DeleteResult{},
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to delete last item",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err, "Failed to delete last item")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, DeleteLastItemResponse{
		Outcome: string(cmd.Result.Outcome),
	})
}
