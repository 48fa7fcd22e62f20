package services

import (
	"context"
	"fmt"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"
	"crypto-travel/internal/store"

	"github.com/rs/zerolog"
)

type TravelService struct {
	store  store.TravelStore
	logger zerolog.Logger
}

func NewTravelService(st store.TravelStore, logger zerolog.Logger) *TravelService {
	return &TravelService{
		store:  st,
		logger: logger,
	}
}

func (s *TravelService) CreatePlan(ctx context.Context, userID string, req *models.CreateTravelPlanRequest) (*models.TravelPlan, error) {
	if req.Destination == "" {
		return nil, apperrors.Validation("destination is required")
	}
	if req.Budget < 0 {
		return nil, apperrors.Validation("budget cannot be negative")
	}

	plan := &models.TravelPlan{
		UserID:      userID,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
	}

	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create travel plan: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("destination", req.Destination).
		Msg("Travel plan created")

	return plan, nil
}

func (s *TravelService) GetPlans(ctx context.Context, userID string) ([]models.TravelPlan, error) {
	plans, err := s.store.ListPlans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel plans: %w", err)
	}
	if plans == nil {
		plans = []models.TravelPlan{}
	}
	return plans, nil
}
