package handlers

import (
	"encoding/json"
	"net/http"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"
	"crypto-travel/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	resp, err := h.authService.SignUp(req.Email, req.Password)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Signup failed")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	session, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *AuthHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
