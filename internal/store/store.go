package store

import (
	"context"
	"encoding/json"
	"time"

	"crypto-travel/internal/models"

	"github.com/shopspring/decimal"
)

// PortfolioStore is the persistence surface for holdings. GetHolding returns
// nil when no row exists for (userID, coinID).
type PortfolioStore interface {
	GetHolding(ctx context.Context, userID, coinID string) (*models.PortfolioAsset, error)
	GetHoldingWithCoin(ctx context.Context, userID, coinID string) (*models.PortfolioAsset, error)
	ListHoldings(ctx context.Context, userID string) ([]models.PortfolioAsset, error)
	// InsertHolding creates the first row for a pair; it fails when the row
	// already exists.
	InsertHolding(ctx context.Context, asset models.PortfolioAsset) error
	// CompareAndSwapAmount updates the amount only when the stored amount
	// still equals prev. It reports whether a row was updated.
	CompareAndSwapAmount(ctx context.Context, userID, coinID string, prev, next decimal.Decimal, updatedAt time.Time) (bool, error)
}

type TravelStore interface {
	CreatePlan(ctx context.Context, plan *models.TravelPlan) error
	ListPlans(ctx context.Context, userID string) ([]models.TravelPlan, error)
}

// MarketCacheStore persists the single cache row per quote currency.
type MarketCacheStore interface {
	UpsertMarketData(ctx context.Context, quote string, data json.RawMessage, fetchedAt time.Time) error
}
