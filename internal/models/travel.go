package models

import "time"

type TravelPlan struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	Budget      float64   `json:"budget,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type CreateTravelPlanRequest struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      float64 `json:"budget"`
}
