package router

import (
	"net/http"

	"crypto-travel/internal/coingecko"
	"crypto-travel/internal/config"
	"crypto-travel/internal/handlers"
	"crypto-travel/internal/middleware"
	"crypto-travel/internal/models"
	"crypto-travel/internal/services"
	"crypto-travel/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(cfg config.Config, st *store.SupabaseStore, logger zerolog.Logger) *mux.Router {
	gecko := coingecko.NewClient(cfg.CoinGeckoURL, logger)

	authService := services.NewAuthService(st.Client(), logger)
	portfolioService := services.NewPortfolioService(st, gecko, logger)
	marketService := services.NewMarketService(gecko, st, logger)
	travelService := services.NewTravelService(st, logger)
	paymentService := services.NewPaymentService(
		services.SimulatedConfirmer{Delay: cfg.ConfirmDelay},
		cfg.ConfirmTimeout,
		func(sess models.PaymentSession) {
			logger.Info().
				Str("session_id", sess.ID).
				Str("user_id", sess.UserID).
				Str("booking", sess.BookingTitle).
				Str("currency", string(sess.Currency)).
				Msg("Booking payment completed")
		},
		logger,
	)

	authHandler := handlers.NewAuthHandler(authService, logger)
	cryptoHandler := handlers.NewCryptoHandler(portfolioService, marketService, logger)
	travelHandler := handlers.NewTravelHandler(travelService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)

	if cfg.SupabaseJWTSecret == "" {
		logger.Warn().Msg("SUPABASE_JWT_SECRET not set, authenticated routes will reject all tokens")
	}

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RequestValidation())
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	crypto := api.PathPrefix("/crypto").Subrouter()
	crypto.HandleFunc("/market", cryptoHandler.GetMarketData).Methods("GET")
	crypto.HandleFunc("/coins/{id}", cryptoHandler.GetCoinDetails).Methods("GET")

	protectedCrypto := crypto.PathPrefix("").Subrouter()
	protectedCrypto.Use(middleware.Authentication(cfg.SupabaseJWTSecret, logger))
	protectedCrypto.Use(middleware.RequestValidation())
	protectedCrypto.HandleFunc("/portfolio", cryptoHandler.GetPortfolio).Methods("GET")
	protectedCrypto.HandleFunc("/transactions", cryptoHandler.AddTransaction).Methods("POST")

	travel := api.PathPrefix("/travel").Subrouter()
	travel.Use(middleware.Authentication(cfg.SupabaseJWTSecret, logger))
	travel.Use(middleware.RequestValidation())
	travel.HandleFunc("", travelHandler.GetPlans).Methods("GET")
	travel.HandleFunc("", travelHandler.CreatePlan).Methods("POST")

	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(middleware.Authentication(cfg.SupabaseJWTSecret, logger))
	payments.HandleFunc("", paymentHandler.CreateSession).Methods("POST")
	payments.HandleFunc("/{id}", paymentHandler.GetSession).Methods("GET")
	payments.HandleFunc("/{id}/select", paymentHandler.SelectCurrency).Methods("POST")
	payments.HandleFunc("/{id}/back", paymentHandler.Back).Methods("POST")
	payments.HandleFunc("/{id}/confirm", paymentHandler.ConfirmSent).Methods("POST")
	payments.HandleFunc("/{id}/cancel", paymentHandler.Cancel).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
