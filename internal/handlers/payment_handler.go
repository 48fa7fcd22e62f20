package handlers

import (
	"encoding/json"
	"net/http"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/middleware"
	"crypto-travel/internal/models"
	"crypto-travel/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	logger         zerolog.Logger
}

func NewPaymentHandler(paymentService *services.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// sessionResponse pairs the session state with the static payment options so
// a client can render the select and pay steps without extra calls.
type sessionResponse struct {
	Session *models.PaymentSession `json:"session"`
	Options []models.PaymentOption `json:"options"`
}

func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	session, err := h.paymentService.CreateSession(userID, &req)
	if err != nil {
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, sessionResponse{Session: session, Options: h.paymentService.Options()})
}

func (h *PaymentHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.paymentService.GetSession)
}

func (h *PaymentHandler) SelectCurrency(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.SelectCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	session, err := h.paymentService.SelectCurrency(userID, mux.Vars(r)["id"], req.Currency)
	if err != nil {
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, sessionResponse{Session: session, Options: h.paymentService.Options()})
}

func (h *PaymentHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.paymentService.Back)
}

func (h *PaymentHandler) ConfirmSent(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.paymentService.ConfirmSent)
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.paymentService.Cancel)
}

func (h *PaymentHandler) withSession(w http.ResponseWriter, r *http.Request, op func(userID, sessionID string) (*models.PaymentSession, error)) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	session, err := op(userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, sessionResponse{Session: session, Options: h.paymentService.Options()})
}

func (h *PaymentHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *PaymentHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
