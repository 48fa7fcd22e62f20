package models

import "time"

// PaymentStep is the linear payment flow position. The only transitions are
// select→pay, pay→select (back), pay→confirming, confirming→complete and
// confirming→failed (timeout or cancel).
type PaymentStep string

const (
	StepSelect     PaymentStep = "select"
	StepPay        PaymentStep = "pay"
	StepConfirming PaymentStep = "confirming"
	StepComplete   PaymentStep = "complete"
	StepFailed     PaymentStep = "failed"
)

// SettlementCurrency is one of the fixed set of currencies a booking can be
// settled in.
type SettlementCurrency string

const (
	CurrencyUSDC SettlementCurrency = "USDC"
	CurrencyETH  SettlementCurrency = "ETH"
	CurrencyBTC  SettlementCurrency = "BTC"
)

// PaymentOption carries the static display data for a settlement currency:
// network, recipient address and a qualitative fee tier.
type PaymentOption struct {
	Currency SettlementCurrency `json:"currency"`
	FullName string             `json:"full_name"`
	Network  string             `json:"network"`
	Address  string             `json:"address"`
	Fees     string             `json:"fees"`
	Amount   string             `json:"amount"`
}

// PaymentSession is the explicit per-booking payment state, created when a
// booking is selected and discarded once payment completes or is abandoned.
type PaymentSession struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	BookingTitle string             `json:"booking_title"`
	Price        string             `json:"price"`
	Currency     SettlementCurrency `json:"currency"`
	Step         PaymentStep        `json:"step"`
	CreatedAt    time.Time          `json:"created_at"`
}

type CreatePaymentRequest struct {
	BookingTitle string `json:"booking_title"`
	Price        string `json:"price"`
}

type SelectCurrencyRequest struct {
	Currency SettlementCurrency `json:"currency"`
}
