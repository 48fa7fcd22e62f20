package services

import (
	"context"
	"errors"
	"testing"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"

	"github.com/rs/zerolog"
)

type fakeTravelStore struct {
	plans []models.TravelPlan
	err   error
}

func (f *fakeTravelStore) CreatePlan(ctx context.Context, plan *models.TravelPlan) error {
	if f.err != nil {
		return f.err
	}
	plan.ID = "plan-1"
	f.plans = append(f.plans, *plan)
	return nil
}

func (f *fakeTravelStore) ListPlans(ctx context.Context, userID string) ([]models.TravelPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.TravelPlan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestCreatePlan(t *testing.T) {
	st := &fakeTravelStore{}
	svc := NewTravelService(st, zerolog.Nop())

	plan, err := svc.CreatePlan(context.Background(), "user-1", &models.CreateTravelPlanRequest{
		Destination: "Lisbon",
		StartDate:   "2026-10-01",
		EndDate:     "2026-10-08",
		Budget:      2500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ID == "" {
		t.Error("expected created plan to carry an id")
	}
	if plan.UserID != "user-1" {
		t.Errorf("plan must be scoped to the caller, got %q", plan.UserID)
	}
}

func TestCreatePlan_RequiresDestination(t *testing.T) {
	svc := NewTravelService(&fakeTravelStore{}, zerolog.Nop())

	_, err := svc.CreatePlan(context.Background(), "user-1", &models.CreateTravelPlanRequest{})
	if !errors.Is(err, apperrors.ErrInvalidRequest) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetPlans_EmptyIsNotNil(t *testing.T) {
	svc := NewTravelService(&fakeTravelStore{}, zerolog.Nop())

	plans, err := svc.GetPlans(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans == nil {
		t.Error("expected empty slice, got nil")
	}
}
