package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioAsset is one holding row, uniquely keyed by (user_id, coin_id).
// Amount never goes negative; sells that would overdraw are rejected before
// any write.
type PortfolioAsset struct {
	UserID      string          `json:"user_id"`
	CoinID      string          `json:"coin_id"`
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated time.Time       `json:"last_updated"`
	Coin        *Coin           `json:"coins,omitempty"`

	// Filled from live market data when the portfolio is listed.
	CurrentPrice float64 `json:"current_price,omitempty"`
	Value        float64 `json:"value,omitempty"`
}

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

type TransactionRequest struct {
	CoinID          string          `json:"coin_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
}

// Portfolio is the holdings listing enriched with current prices.
type Portfolio struct {
	Assets     []PortfolioAsset `json:"assets"`
	TotalValue float64          `json:"total_value"`
}
