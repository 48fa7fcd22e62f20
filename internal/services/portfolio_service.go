package services

import (
	"context"
	"fmt"
	"time"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"
	"crypto-travel/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// casAttempts bounds how often a transaction is retried when a concurrent
// write on the same (user_id, coin_id) pair invalidates the read amount.
const casAttempts = 3

// PriceSource supplies live market data for portfolio valuation.
type PriceSource interface {
	GetCoin(ctx context.Context, coinID string) (*models.CoinDetails, error)
}

type PortfolioService struct {
	store  store.PortfolioStore
	prices PriceSource
	logger zerolog.Logger
	now    func() time.Time
}

func NewPortfolioService(st store.PortfolioStore, prices PriceSource, logger zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		store:  st,
		prices: prices,
		logger: logger,
		now:    time.Now,
	}
}

// ApplyTransaction applies a buy or sell to the caller's holding of a coin.
// The resulting amount never goes below zero; a sell that would overdraw is
// rejected before any write. The write itself is a conditional update on the
// previously read amount, so concurrent transactions on the same pair cannot
// silently lose an update.
func (s *PortfolioService) ApplyTransaction(ctx context.Context, userID string, req *models.TransactionRequest) (*models.PortfolioAsset, error) {
	if req.CoinID == "" {
		return nil, apperrors.Validation("coin_id is required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.Validation("amount must be greater than zero")
	}
	if req.TransactionType != models.TransactionTypeBuy && req.TransactionType != models.TransactionTypeSell {
		return nil, apperrors.Validation("transaction_type must be buy or sell")
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		existing, err := s.store.GetHolding(ctx, userID, req.CoinID)
		if err != nil {
			return nil, fmt.Errorf("failed to read holding: %w", err)
		}

		current := decimal.Zero
		if existing != nil {
			current = existing.Amount
		}

		var newAmount decimal.Decimal
		if req.TransactionType == models.TransactionTypeBuy {
			newAmount = current.Add(req.Amount)
		} else {
			newAmount = current.Sub(req.Amount)
		}

		if newAmount.IsNegative() {
			return nil, apperrors.InsufficientBalance("insufficient balance")
		}

		now := s.now()
		if existing == nil {
			err = s.store.InsertHolding(ctx, models.PortfolioAsset{
				UserID:      userID,
				CoinID:      req.CoinID,
				Amount:      newAmount,
				LastUpdated: now,
			})
			if err != nil {
				// Lost the race against a concurrent first write; re-read.
				s.logger.Warn().Err(err).Str("coin_id", req.CoinID).Msg("Holding insert conflict, retrying")
				continue
			}
		} else {
			swapped, err := s.store.CompareAndSwapAmount(ctx, userID, req.CoinID, current, newAmount, now)
			if err != nil {
				return nil, fmt.Errorf("failed to update holding: %w", err)
			}
			if !swapped {
				s.logger.Warn().Str("coin_id", req.CoinID).Int("attempt", attempt+1).Msg("Holding changed concurrently, retrying")
				continue
			}
		}

		updated, err := s.store.GetHoldingWithCoin(ctx, userID, req.CoinID)
		if err != nil {
			return nil, fmt.Errorf("failed to read updated holding: %w", err)
		}
		if updated == nil {
			return nil, apperrors.NotFound("holding")
		}

		s.logger.Info().
			Str("user_id", userID).
			Str("coin_id", req.CoinID).
			Str("type", string(req.TransactionType)).
			Str("amount", req.Amount.String()).
			Str("new_amount", newAmount.String()).
			Msg("Portfolio transaction applied")

		return updated, nil
	}

	return nil, apperrors.Conflict("holding is being modified concurrently, try again")
}

// GetPortfolio lists the caller's holdings joined with coin metadata and
// enriched with current prices. Price lookups are best-effort; a holding
// whose price cannot be fetched is returned without a value.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error) {
	assets, err := s.store.ListHoldings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	portfolio := &models.Portfolio{Assets: make([]models.PortfolioAsset, 0, len(assets))}
	for _, asset := range assets {
		details, err := s.prices.GetCoin(ctx, asset.CoinID)
		if err != nil {
			s.logger.Warn().Err(err).Str("coin_id", asset.CoinID).Msg("Price lookup failed, returning holding without value")
			portfolio.Assets = append(portfolio.Assets, asset)
			continue
		}

		price := details.MarketData.CurrentPrice["usd"]
		amount, _ := asset.Amount.Float64()
		asset.CurrentPrice = price
		asset.Value = amount * price
		portfolio.TotalValue += asset.Value
		portfolio.Assets = append(portfolio.Assets, asset)
	}

	return portfolio, nil
}
