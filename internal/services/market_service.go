package services

import (
	"context"
	"encoding/json"
	"time"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"
	"crypto-travel/internal/store"

	"github.com/rs/zerolog"
)

// MarketFetcher is the upstream market data provider surface.
type MarketFetcher interface {
	GetMarkets(ctx context.Context, quote string) ([]models.MarketCoin, error)
	GetCoin(ctx context.Context, coinID string) (*models.CoinDetails, error)
}

type MarketService struct {
	fetcher MarketFetcher
	cache   store.MarketCacheStore
	logger  zerolog.Logger
	now     func() time.Time
}

func NewMarketService(fetcher MarketFetcher, cache store.MarketCacheStore, logger zerolog.Logger) *MarketService {
	return &MarketService{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// GetMarketData fetches market data for a quote currency and refreshes the
// single cache row for that currency. The cache write is best-effort: a
// failed write is logged and the fetched data is still returned.
func (s *MarketService) GetMarketData(ctx context.Context, quote string) ([]models.MarketCoin, error) {
	if quote == "" {
		quote = "usd"
	}

	coins, err := s.fetcher.GetMarkets(ctx, quote)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch market data", err)
	}

	if payload, err := json.Marshal(coins); err == nil {
		if err := s.cache.UpsertMarketData(ctx, quote, payload, s.now()); err != nil {
			s.logger.Warn().Err(err).Str("vs_currency", quote).Msg("Market data cache write failed")
		}
	}

	return coins, nil
}

// GetCoinDetails fetches a single coin and flattens it to the API shape.
func (s *MarketService) GetCoinDetails(ctx context.Context, coinID string) (*models.CoinSummary, error) {
	if coinID == "" {
		return nil, apperrors.Validation("coin id is required")
	}

	details, err := s.fetcher.GetCoin(ctx, coinID)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch coin details", err)
	}

	return &models.CoinSummary{
		ID:             details.ID,
		Name:           details.Name,
		Symbol:         details.Symbol,
		Image:          details.Image.Large,
		CurrentPrice:   details.MarketData.CurrentPrice["usd"],
		PriceChange24h: details.MarketData.PriceChange24h,
		MarketCap:      details.MarketData.MarketCap["usd"],
	}, nil
}
