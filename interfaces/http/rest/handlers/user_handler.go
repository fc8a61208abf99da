package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hivemind/application/services"
	"hivemind/pkg/auth"
	"hivemind/pkg/utils"
)

// UserHandler handles account registration and login
type UserHandler struct {
	accounts  *services.AccountService
	generator *auth.JWTGenerator
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	accounts *services.AccountService,
	generator *auth.JWTGenerator,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		accounts:  accounts,
		generator: generator,
		logger:    logger,
	}
}

// CredentialsRequest represents a username/password pair
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Register handles POST /user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondAppError(w, h.logger, err, "Failed to register user")
		return
	}

	token, err := h.generator.GenerateToken(account.ID, account.Username)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.String("userID", account.ID), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, AuthResponse{
		UserID:   account.ID,
		Username: account.Username,
		Token:    token,
	})
}

// Login handles POST /user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, h.logger, http.StatusBadRequest, "Username and password are required")
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondAppError(w, h.logger, err, "Failed to authenticate")
		return
	}

	token, err := h.generator.GenerateToken(account.ID, account.Username)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.String("userID", account.ID), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, AuthResponse{
		UserID:   account.ID,
		Username: account.Username,
		Token:    token,
	})
}
