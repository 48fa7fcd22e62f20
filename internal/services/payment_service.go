package services

import (
	"context"
	"sync"
	"time"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ConfirmationSource reports when a payment for a session has been confirmed.
// Await blocks until confirmation or until the context is cancelled.
type ConfirmationSource interface {
	Await(ctx context.Context, session models.PaymentSession) error
}

// SimulatedConfirmer confirms every payment after a fixed delay. It stands in
// for an on-chain confirmation watcher.
type SimulatedConfirmer struct {
	Delay time.Duration
}

func (c SimulatedConfirmer) Await(ctx context.Context, _ models.PaymentSession) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.Delay):
		return nil
	}
}

var paymentOptions = []models.PaymentOption{
	{
		Currency: models.CurrencyUSDC,
		FullName: "USD Coin",
		Network:  "Polygon",
		Address:  "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		Fees:     "Low fees (~$0.01)",
	},
	{
		Currency: models.CurrencyETH,
		FullName: "Ethereum",
		Network:  "Ethereum",
		Address:  "0x742d35Cc6e1b4b4C3D5C8f9d9F9f5c5c5c5c5c5c",
		Fees:     "Medium fees (~$15)",
	},
	{
		Currency: models.CurrencyBTC,
		FullName: "Bitcoin",
		Network:  "Bitcoin",
		Address:  "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		Fees:     "Higher fees (~$25)",
	},
}

type paymentSession struct {
	models.PaymentSession
	cancel       context.CancelFunc
	completeOnce sync.Once
}

// PaymentService drives the per-booking payment flow:
// select → pay → confirming → complete, with pay → select as the explicit
// back transition and confirming → failed on timeout or cancel. The
// completion callback fires exactly once per session.
type PaymentService struct {
	mu         sync.RWMutex
	sessions   map[string]*paymentSession
	confirmer  ConfirmationSource
	timeout    time.Duration
	onComplete func(models.PaymentSession)
	logger     zerolog.Logger
}

func NewPaymentService(confirmer ConfirmationSource, timeout time.Duration, onComplete func(models.PaymentSession), logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		sessions:   make(map[string]*paymentSession),
		confirmer:  confirmer,
		timeout:    timeout,
		onComplete: onComplete,
		logger:     logger,
	}
}

// Options lists the fixed settlement currencies with their static addresses
// and fee tiers.
func (s *PaymentService) Options() []models.PaymentOption {
	out := make([]models.PaymentOption, len(paymentOptions))
	copy(out, paymentOptions)
	return out
}

func (s *PaymentService) CreateSession(userID string, req *models.CreatePaymentRequest) (*models.PaymentSession, error) {
	if req.BookingTitle == "" {
		return nil, apperrors.Validation("booking_title is required")
	}

	sess := &paymentSession{
		PaymentSession: models.PaymentSession{
			ID:           uuid.New().String(),
			UserID:       userID,
			BookingTitle: req.BookingTitle,
			Price:        req.Price,
			Currency:     models.CurrencyUSDC,
			Step:         models.StepSelect,
			CreatedAt:    time.Now(),
		},
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info().Str("session_id", sess.ID).Str("booking", req.BookingTitle).Msg("Payment session created")

	snapshot := sess.PaymentSession
	return &snapshot, nil
}

func (s *PaymentService) GetSession(userID, sessionID string) (*models.PaymentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, err
	}
	snapshot := sess.PaymentSession
	return &snapshot, nil
}

// SelectCurrency confirms the currency choice and moves the session to the
// pay step.
func (s *PaymentService) SelectCurrency(userID, sessionID string, currency models.SettlementCurrency) (*models.PaymentSession, error) {
	if !validCurrency(currency) {
		return nil, apperrors.Validation("currency must be one of USDC, ETH, BTC")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != models.StepSelect {
		return nil, apperrors.Validation("cannot select a currency in step %s", sess.Step)
	}

	sess.Currency = currency
	sess.Step = models.StepPay

	snapshot := sess.PaymentSession
	return &snapshot, nil
}

// Back returns a session from pay to select. The currency choice is kept.
func (s *PaymentService) Back(userID, sessionID string) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != models.StepPay {
		return nil, apperrors.Validation("cannot go back from step %s", sess.Step)
	}

	sess.Step = models.StepSelect

	snapshot := sess.PaymentSession
	return &snapshot, nil
}

// ConfirmSent is the user's assertion that the payment was sent. It moves
// the session to confirming and starts a timeout-bounded wait on the
// confirmation source.
func (s *PaymentService) ConfirmSent(userID, sessionID string) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != models.StepPay {
		return nil, apperrors.Validation("cannot confirm payment in step %s", sess.Step)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	sess.Step = models.StepConfirming
	sess.cancel = cancel

	// Snapshot while still holding the lock; the watcher must not touch
	// session fields that Cancel may rewrite concurrently.
	snapshot := sess.PaymentSession
	go s.watchConfirmation(ctx, cancel, sess, snapshot)

	return &snapshot, nil
}

func (s *PaymentService) watchConfirmation(ctx context.Context, cancel context.CancelFunc, sess *paymentSession, snapshot models.PaymentSession) {
	defer cancel()

	err := s.confirmer.Await(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Cancel may already have moved the session out of confirming.
	if sess.Step != models.StepConfirming {
		return
	}

	if err != nil {
		sess.Step = models.StepFailed
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("Payment confirmation failed")
		return
	}

	sess.Step = models.StepComplete
	s.logger.Info().Str("session_id", sess.ID).Str("booking", sess.BookingTitle).Msg("Payment confirmed")

	if s.onComplete != nil {
		completed := sess.PaymentSession
		sess.completeOnce.Do(func() {
			s.onComplete(completed)
		})
	}
}

// Cancel aborts a session. During confirming it stops the watcher and marks
// the session failed; in select or pay it discards the session.
func (s *PaymentService) Cancel(userID, sessionID string) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, err
	}

	switch sess.Step {
	case models.StepConfirming:
		sess.Step = models.StepFailed
		if sess.cancel != nil {
			sess.cancel()
		}
	case models.StepSelect, models.StepPay:
		delete(s.sessions, sess.ID)
		sess.Step = models.StepFailed
	default:
		return nil, apperrors.Validation("cannot cancel a session in step %s", sess.Step)
	}

	s.logger.Info().Str("session_id", sess.ID).Msg("Payment session cancelled")

	snapshot := sess.PaymentSession
	return &snapshot, nil
}

func (s *PaymentService) lookupLocked(userID, sessionID string) (*paymentSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NotFound("payment session")
	}
	if sess.UserID != userID {
		return nil, apperrors.NotFound("payment session")
	}
	return sess, nil
}

func validCurrency(c models.SettlementCurrency) bool {
	switch c {
	case models.CurrencyUSDC, models.CurrencyETH, models.CurrencyBTC:
		return true
	}
	return false
}
