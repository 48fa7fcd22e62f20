package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string
	CoinGeckoURL      string
	ConfirmDelay      time.Duration
	ConfirmTimeout    time.Duration
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, falling back to environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	coinGeckoURL := os.Getenv("COINGECKO_URL")
	if coinGeckoURL == "" {
		coinGeckoURL = "https://api.coingecko.com/api/v3"
	}

	return Config{
		Port:              port,
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseKey:       os.Getenv("SUPABASE_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		CoinGeckoURL:      coinGeckoURL,
		ConfirmDelay:      secondsEnv("PAYMENT_CONFIRM_DELAY_SEC", 3),
		ConfirmTimeout:    secondsEnv("PAYMENT_CONFIRM_TIMEOUT_SEC", 180),
	}
}

func secondsEnv(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
