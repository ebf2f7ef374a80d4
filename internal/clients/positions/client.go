// Package positions provides client functionality for the upstream positions backend,
// which serves holdings contracts, performance series, and the currency catalogue.
package positions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/clientdata"
	"github.com/periphas/folio/internal/domain"
)

// Client for the positions backend API.
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new positions backend client.
// cacheRepo is optional - if nil, currency caching is disabled.
func NewClient(baseURL string, timeout time.Duration, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		log:       log.With().Str("client", "positions").Logger(),
		cacheRepo: cacheRepo,
	}
}

// GetPortfolios fetches the portfolio catalogue.
func (c *Client) GetPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	endpoint := fmt.Sprintf("%s/api/portfolios", c.baseURL)

	var portfolios []domain.Portfolio
	if err := c.getJSON(ctx, endpoint, &portfolios); err != nil {
		return nil, fmt.Errorf("failed to fetch portfolios: %w", err)
	}

	c.log.Debug().Int("count", len(portfolios)).Msg("Fetched portfolio catalogue")

	return portfolios, nil
}

// GetHoldings fetches the raw holdings contract for a portfolio.
func (c *Client) GetHoldings(ctx context.Context, portfolioCode string) (*domain.HoldingContract, error) {
	endpoint := fmt.Sprintf("%s/api/portfolios/%s/holdings", c.baseURL, url.PathEscape(portfolioCode))

	var contract domain.HoldingContract
	if err := c.getJSON(ctx, endpoint, &contract); err != nil {
		return nil, fmt.Errorf("failed to fetch holdings for %s: %w", portfolioCode, err)
	}

	c.log.Debug().
		Str("portfolio", portfolioCode).
		Int("positions", len(contract.Positions)).
		Msg("Fetched holdings contract")

	return &contract, nil
}

// FetchSeries fetches the monthly performance series for a portfolio.
func (c *Client) FetchSeries(ctx context.Context, portfolioCode string, months int) ([]domain.SeriesPoint, error) {
	endpoint := fmt.Sprintf("%s/api/portfolios/%s/performance?months=%d",
		c.baseURL, url.PathEscape(portfolioCode), months)

	var series []domain.SeriesPoint
	if err := c.getJSON(ctx, endpoint, &series); err != nil {
		return nil, fmt.Errorf("failed to fetch performance series for %s: %w", portfolioCode, err)
	}

	c.log.Debug().
		Str("portfolio", portfolioCode).
		Int("months", months).
		Int("points", len(series)).
		Msg("Fetched performance series")

	return series, nil
}

// GetCurrencies fetches the currency catalogue, using the cache when fresh.
// If the API fails, returns stale cached data if available.
func (c *Client) GetCurrencies(ctx context.Context) ([]domain.Currency, error) {
	const cacheKey = "all"

	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh("currencies", cacheKey)
		if err == nil && data != nil {
			var cached []domain.Currency
			if err := json.Unmarshal(data, &cached); err == nil {
				c.log.Debug().Int("count", len(cached)).Msg("Currency cache hit")
				return cached, nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s/api/currencies", c.baseURL)

	var currencies []domain.Currency
	if err := c.getJSON(ctx, endpoint, &currencies); err != nil {
		// API failed - try stale cache before giving up
		if stale, ok := c.getStaleCurrencies(cacheKey); ok {
			c.log.Warn().
				Err(err).
				Int("count", len(stale)).
				Msg("API failed, using stale cached currencies")
			return stale, nil
		}
		return nil, fmt.Errorf("failed to fetch currencies: %w", err)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("currencies", cacheKey, currencies, clientdata.TTLCurrencies); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache currencies")
		}
	}

	c.log.Info().Int("count", len(currencies)).Msg("Fetched currencies")

	return currencies, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func (c *Client) getStaleCurrencies(cacheKey string) ([]domain.Currency, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	data, err := c.cacheRepo.Get("currencies", cacheKey)
	if err != nil || data == nil {
		return nil, false
	}

	var cached []domain.Currency
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	return cached, true
}
