package handlers

import (
	"encoding/json"
	"net/http"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/middleware"
	"crypto-travel/internal/models"
	"crypto-travel/internal/services"

	"github.com/rs/zerolog"
)

type TravelHandler struct {
	travelService *services.TravelService
	logger        zerolog.Logger
}

func NewTravelHandler(travelService *services.TravelService, logger zerolog.Logger) *TravelHandler {
	return &TravelHandler{
		travelService: travelService,
		logger:        logger,
	}
}

func (h *TravelHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.CreateTravelPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	plan, err := h.travelService.CreatePlan(r.Context(), userID, &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("Travel plan creation failed")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, plan)
}

func (h *TravelHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	plans, err := h.travelService.GetPlans(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Travel plans fetch failed")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), "Failed to fetch travel plans")
		return
	}

	h.respondWithJSON(w, http.StatusOK, plans)
}

func (h *TravelHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *TravelHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
