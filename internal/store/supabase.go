package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"crypto-travel/internal/models"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/supabase-go"
)

// SupabaseStore implements the store interfaces on top of the hosted
// Supabase Postgres tables via postgrest.
type SupabaseStore struct {
	client *supabase.Client
}

func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseStore{client: client}, nil
}

// Client exposes the underlying supabase client for auth delegation.
func (s *SupabaseStore) Client() *supabase.Client {
	return s.client
}

func (s *SupabaseStore) GetHolding(ctx context.Context, userID, coinID string) (*models.PortfolioAsset, error) {
	data, _, err := s.client.From("portfolio_assets").
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("coin_id", coinID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holding: %w", err)
	}

	var assets []models.PortfolioAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse holding: %w", err)
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return &assets[0], nil
}

func (s *SupabaseStore) GetHoldingWithCoin(ctx context.Context, userID, coinID string) (*models.PortfolioAsset, error) {
	data, _, err := s.client.From("portfolio_assets").
		Select("*, coins(*)", "", false).
		Eq("user_id", userID).
		Eq("coin_id", coinID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holding: %w", err)
	}

	var assets []models.PortfolioAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse holding: %w", err)
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return &assets[0], nil
}

func (s *SupabaseStore) ListHoldings(ctx context.Context, userID string) ([]models.PortfolioAsset, error) {
	data, _, err := s.client.From("portfolio_assets").
		Select("*, coins(*)", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holdings: %w", err)
	}

	var assets []models.PortfolioAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse holdings: %w", err)
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].LastUpdated.After(assets[j].LastUpdated)
	})
	return assets, nil
}

func (s *SupabaseStore) InsertHolding(ctx context.Context, asset models.PortfolioAsset) error {
	row := map[string]interface{}{
		"user_id":      asset.UserID,
		"coin_id":      asset.CoinID,
		"amount":       asset.Amount,
		"last_updated": asset.LastUpdated.Format(time.RFC3339),
	}
	_, _, err := s.client.From("portfolio_assets").
		Insert(row, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

func (s *SupabaseStore) CompareAndSwapAmount(ctx context.Context, userID, coinID string, prev, next decimal.Decimal, updatedAt time.Time) (bool, error) {
	row := map[string]interface{}{
		"amount":       next,
		"last_updated": updatedAt.Format(time.RFC3339),
	}
	_, count, err := s.client.From("portfolio_assets").
		Update(row, "", "exact").
		Eq("user_id", userID).
		Eq("coin_id", coinID).
		Eq("amount", prev.String()).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to update holding: %w", err)
	}
	return count > 0, nil
}

func (s *SupabaseStore) CreatePlan(ctx context.Context, plan *models.TravelPlan) error {
	row := map[string]interface{}{
		"user_id":     plan.UserID,
		"destination": plan.Destination,
		"start_date":  plan.StartDate,
		"end_date":    plan.EndDate,
		"budget":      plan.Budget,
	}
	data, _, err := s.client.From("travel_plans").
		Insert(row, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create travel plan: %w", err)
	}

	var created []models.TravelPlan
	if err := json.Unmarshal(data, &created); err == nil && len(created) > 0 {
		plan.ID = created[0].ID
		plan.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (s *SupabaseStore) ListPlans(ctx context.Context, userID string) ([]models.TravelPlan, error) {
	data, _, err := s.client.From("travel_plans").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch travel plans: %w", err)
	}

	var plans []models.TravelPlan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("failed to parse travel plans: %w", err)
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

func (s *SupabaseStore) UpsertMarketData(ctx context.Context, quote string, data json.RawMessage, fetchedAt time.Time) error {
	row := map[string]interface{}{
		"vs_currency":  quote,
		"data":         data,
		"last_updated": fetchedAt.Format(time.RFC3339),
	}
	_, _, err := s.client.From("market_data_cache").
		Insert(row, true, "vs_currency", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to cache market data: %w", err)
	}
	return nil
}
