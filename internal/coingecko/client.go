package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"crypto-travel/internal/models"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client is a read-only CoinGecko REST client. Requests are retried up to
// three times with exponential backoff before the upstream is reported as
// failed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetMarkets fetches /coins/markets for the given quote currency, ordered by
// market cap, first page of 100.
func (c *Client) GetMarkets(ctx context.Context, quote string) ([]models.MarketCoin, error) {
	params := url.Values{}
	params.Set("vs_currency", quote)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", "100")
	params.Set("page", "1")
	params.Set("sparkline", "false")

	var coins []models.MarketCoin
	if err := c.getJSON(ctx, "/coins/markets?"+params.Encode(), &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

// GetCoin fetches /coins/{id}.
func (c *Client) GetCoin(ctx context.Context, coinID string) (*models.CoinDetails, error) {
	var details models.CoinDetails
	if err := c.getJSON(ctx, "/coins/"+url.PathEscape(coinID), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			delay := time.Duration(1<<uint(i-1)) * time.Second
			c.logger.Info().Int("attempt", i).Dur("delay", delay).Str("path", path).Msg("Retrying market data fetch")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doGet(ctx, path, out)
		if err == nil {
			return nil
		}
		lastErr = err
		c.logger.Warn().Err(err).Int("attempt", i+1).Str("path", path).Msg("Market data fetch attempt failed")
	}
	return lastErr
}

func (c *Client) doGet(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
