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

type CryptoHandler struct {
	portfolioService *services.PortfolioService
	marketService    *services.MarketService
	logger           zerolog.Logger
}

func NewCryptoHandler(portfolioService *services.PortfolioService, marketService *services.MarketService, logger zerolog.Logger) *CryptoHandler {
	return &CryptoHandler{
		portfolioService: portfolioService,
		marketService:    marketService,
		logger:           logger,
	}
}

func (h *CryptoHandler) GetMarketData(w http.ResponseWriter, r *http.Request) {
	quote := r.URL.Query().Get("vs_currency")

	coins, err := h.marketService.GetMarketData(r.Context(), quote)
	if err != nil {
		h.logger.Error().Err(err).Str("vs_currency", quote).Msg("Market data fetch failed")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), "Failed to fetch market data")
		return
	}

	h.respondWithJSON(w, http.StatusOK, coins)
}

func (h *CryptoHandler) GetCoinDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	coin, err := h.marketService.GetCoinDetails(r.Context(), vars["id"])
	if err != nil {
		h.logger.Error().Err(err).Str("coin_id", vars["id"]).Msg("Coin details fetch failed")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), "Failed to fetch coin details")
		return
	}

	h.respondWithJSON(w, http.StatusOK, coin)
}

func (h *CryptoHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Portfolio fetch failed")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), "Failed to fetch portfolio")
		return
	}

	h.respondWithJSON(w, http.StatusOK, portfolio)
}

func (h *CryptoHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	asset, err := h.portfolioService.ApplyTransaction(r.Context(), userID, &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Str("coin_id", req.CoinID).Msg("Transaction rejected")
		h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, asset)
}

func (h *CryptoHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *CryptoHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
