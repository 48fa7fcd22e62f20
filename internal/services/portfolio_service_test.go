package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-travel/internal/apperrors"
	"crypto-travel/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type fakePortfolioStore struct {
	holdings map[string]*models.PortfolioAsset
	reads    int
	inserts  int
	swaps    int
	// missSwaps makes the first n CAS attempts report a concurrent change.
	missSwaps int
}

func newFakePortfolioStore() *fakePortfolioStore {
	return &fakePortfolioStore{holdings: make(map[string]*models.PortfolioAsset)}
}

func key(userID, coinID string) string { return userID + "|" + coinID }

func (f *fakePortfolioStore) GetHolding(ctx context.Context, userID, coinID string) (*models.PortfolioAsset, error) {
	f.reads++
	if h, ok := f.holdings[key(userID, coinID)]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePortfolioStore) GetHoldingWithCoin(ctx context.Context, userID, coinID string) (*models.PortfolioAsset, error) {
	if h, ok := f.holdings[key(userID, coinID)]; ok {
		copied := *h
		copied.Coin = &models.Coin{ID: coinID, Name: coinID}
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePortfolioStore) ListHoldings(ctx context.Context, userID string) ([]models.PortfolioAsset, error) {
	var out []models.PortfolioAsset
	for _, h := range f.holdings {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakePortfolioStore) InsertHolding(ctx context.Context, asset models.PortfolioAsset) error {
	f.inserts++
	k := key(asset.UserID, asset.CoinID)
	if _, ok := f.holdings[k]; ok {
		return errors.New("duplicate key")
	}
	copied := asset
	f.holdings[k] = &copied
	return nil
}

func (f *fakePortfolioStore) CompareAndSwapAmount(ctx context.Context, userID, coinID string, prev, next decimal.Decimal, updatedAt time.Time) (bool, error) {
	f.swaps++
	if f.missSwaps > 0 {
		f.missSwaps--
		return false, nil
	}
	h, ok := f.holdings[key(userID, coinID)]
	if !ok || !h.Amount.Equal(prev) {
		return false, nil
	}
	h.Amount = next
	h.LastUpdated = updatedAt
	return true, nil
}

type stubPrices struct {
	price float64
	err   error
}

func (s stubPrices) GetCoin(ctx context.Context, coinID string) (*models.CoinDetails, error) {
	if s.err != nil {
		return nil, s.err
	}
	d := &models.CoinDetails{ID: coinID}
	d.MarketData.CurrentPrice = map[string]float64{"usd": s.price}
	return d, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyTransaction_BuyFromEmpty(t *testing.T) {
	st := newFakePortfolioStore()
	svc := NewPortfolioService(st, stubPrices{}, zerolog.Nop())

	asset, err := svc.ApplyTransaction(context.Background(), "user-1", &models.TransactionRequest{
		CoinID:          "bitcoin",
		Amount:          dec("2.0"),
		TransactionType: models.TransactionTypeBuy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !asset.Amount.Equal(dec("2.0")) {
		t.Errorf("expected amount 2.0, got %s", asset.Amount)
	}
	if asset.Coin == nil {
		t.Error("expected coin metadata joined on result")
	}
	if st.inserts != 1 {
		t.Errorf("expected exactly one write, got %d inserts", st.inserts)
	}
}

func TestApplyTransaction_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		amount   string
		txType   models.TransactionType
		want     string
	}{
		{"buy adds", "1.5", "0.5", models.TransactionTypeBuy, "2"},
		{"sell subtracts", "3", "1.25", models.TransactionTypeSell, "1.75"},
		{"sell to exactly zero", "0.75", "0.75", models.TransactionTypeSell, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakePortfolioStore()
			st.holdings[key("user-1", "ethereum")] = &models.PortfolioAsset{
				UserID: "user-1", CoinID: "ethereum", Amount: dec(tt.existing),
			}
			svc := NewPortfolioService(st, stubPrices{}, zerolog.Nop())

			asset, err := svc.ApplyTransaction(context.Background(), "user-1", &models.TransactionRequest{
				CoinID:          "ethereum",
				Amount:          dec(tt.amount),
				TransactionType: tt.txType,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !asset.Amount.Equal(dec(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, asset.Amount)
			}
			if st.swaps != 1 {
				t.Errorf("expected exactly one write, got %d swaps", st.swaps)
			}
		})
	}
}

func TestApplyTransaction_InsufficientBalance(t *testing.T) {
	st := newFakePortfolioStore()
	st.holdings[key("user-1", "bitcoin")] = &models.PortfolioAsset{
		UserID: "user-1", CoinID: "bitcoin", Amount: dec("0.5"),
	}
	svc := NewPortfolioService(st, stubPrices{}, zerolog.Nop())

	_, err := svc.ApplyTransaction(context.Background(), "user-1", &models.TransactionRequest{
		CoinID:          "bitcoin",
		Amount:          dec("1.0"),
		TransactionType: models.TransactionTypeSell,
	})
	if !errors.Is(err, apperrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
	if st.swaps != 0 || st.inserts != 0 {
		t.Error("expected no write on rejected sell")
	}
	if !st.holdings[key("user-1", "bitcoin")].Amount.Equal(dec("0.5")) {
		t.Error("holding must be unchanged after rejection")
	}
}

func TestApplyTransaction_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.TransactionRequest
	}{
		{"missing coin_id", models.TransactionRequest{Amount: dec("1"), TransactionType: models.TransactionTypeBuy}},
		{"zero amount", models.TransactionRequest{CoinID: "bitcoin", TransactionType: models.TransactionTypeBuy}},
		{"negative amount", models.TransactionRequest{CoinID: "bitcoin", Amount: dec("-1"), TransactionType: models.TransactionTypeBuy}},
		{"unknown type", models.TransactionRequest{CoinID: "bitcoin", Amount: dec("1"), TransactionType: "trade"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakePortfolioStore()
			svc := NewPortfolioService(st, stubPrices{}, zerolog.Nop())

			_, err := svc.ApplyTransaction(context.Background(), "user-1", &tt.req)
			if !errors.Is(err, apperrors.ErrInvalidRequest) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if st.reads != 0 {
				t.Error("validation must reject before any read")
			}
		})
	}
}

func TestApplyTransaction_RetriesOnConcurrentChange(t *testing.T) {
	st := newFakePortfolioStore()
	st.holdings[key("user-1", "bitcoin")] = &models.PortfolioAsset{
		UserID: "user-1", CoinID: "bitcoin", Amount: dec("1"),
	}
	st.missSwaps = 1
	svc := NewPortfolioService(st, stubPrices{}, zerolog.Nop())

	asset, err := svc.ApplyTransaction(context.Background(), "user-1", &models.TransactionRequest{
		CoinID:          "bitcoin",
		Amount:          dec("1"),
		TransactionType: models.TransactionTypeBuy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !asset.Amount.Equal(dec("2")) {
		t.Errorf("expected 2 after retry, got %s", asset.Amount)
	}
	if st.swaps != 2 {
		t.Errorf("expected 2 swap attempts, got %d", st.swaps)
	}
}

func TestApplyTransaction_ConflictAfterExhaustedRetries(t *testing.T) {
	st := newFakePortfolioStore()
	st.holdings[key("user-1", "bitcoin")] = &models.PortfolioAsset{
		UserID: "user-1", CoinID: "bitcoin", Amount: dec("1"),
	}
	st.missSwaps = casAttempts
	svc := NewPortfolioService(st, stubPrices{}, zerolog.Nop())

	_, err := svc.ApplyTransaction(context.Background(), "user-1", &models.TransactionRequest{
		CoinID:          "bitcoin",
		Amount:          dec("1"),
		TransactionType: models.TransactionTypeBuy,
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGetPortfolio_ValuesHoldings(t *testing.T) {
	st := newFakePortfolioStore()
	st.holdings[key("user-1", "bitcoin")] = &models.PortfolioAsset{
		UserID: "user-1", CoinID: "bitcoin", Amount: dec("2"),
	}
	svc := NewPortfolioService(st, stubPrices{price: 100}, zerolog.Nop())

	portfolio, err := svc.GetPortfolio(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(portfolio.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(portfolio.Assets))
	}
	if portfolio.TotalValue != 200 {
		t.Errorf("expected total value 200, got %f", portfolio.TotalValue)
	}
}

func TestGetPortfolio_PriceLookupFailureIsBestEffort(t *testing.T) {
	st := newFakePortfolioStore()
	st.holdings[key("user-1", "bitcoin")] = &models.PortfolioAsset{
		UserID: "user-1", CoinID: "bitcoin", Amount: dec("2"),
	}
	svc := NewPortfolioService(st, stubPrices{err: errors.New("upstream down")}, zerolog.Nop())

	portfolio, err := svc.GetPortfolio(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(portfolio.Assets) != 1 {
		t.Fatalf("expected holding to survive price failure, got %d assets", len(portfolio.Assets))
	}
	if portfolio.TotalValue != 0 {
		t.Errorf("expected total value 0, got %f", portfolio.TotalValue)
	}
}
