// Package performance merges per-portfolio time series into one
// multi-currency performance curve.
package performance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
)

// SeriesFetcher fetches one portfolio's performance series over a trailing
// window of months.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, portfolioCode string, months int) ([]domain.SeriesPoint, error)
}

// RateSource resolves an FX rate for converting a portfolio's currency to
// the display currency. Unknown pairs resolve to 1.
type RateSource interface {
	RateOrDefault(fromCurrency, toCurrency string) float64
}

// DataPoint is one calendar date of the merged multi-portfolio series,
// expressed in the display currency.
type DataPoint struct {
	Date                string  `json:"date"`
	MarketValue         float64 `json:"market_value"`
	NetContributions    float64 `json:"net_contributions"`
	CumulativeDividends float64 `json:"cumulative_dividends"`
	InvestmentGain      float64 `json:"investment_gain"`
	GrowthOf1000        float64 `json:"growth_of_1000"`
	CumulativeReturn    float64 `json:"cumulative_return"`
}

// Aggregator fetches per-portfolio series concurrently and merges them by
// calendar date into a single display-currency curve.
type Aggregator struct {
	fetcher      SeriesFetcher
	rates        RateSource
	cache        *ResultCache
	fetchTimeout time.Duration
	log          zerolog.Logger
}

// NewAggregator creates a cross-portfolio performance aggregator
func NewAggregator(
	fetcher SeriesFetcher,
	rates RateSource,
	cache *ResultCache,
	fetchTimeout time.Duration,
	log zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		fetcher:      fetcher,
		rates:        rates,
		cache:        cache,
		fetchTimeout: fetchTimeout,
		log:          log.With().Str("service", "performance").Logger(),
	}
}

type fetchResult struct {
	portfolio domain.Portfolio
	series    []domain.SeriesPoint
	err       error
}

// Aggregate merges the portfolios' series over the trailing window into one
// curve in the display currency.
//
// Fetches run concurrently with per-portfolio timeouts; one portfolio's
// failure is logged and excluded without aborting the rest. Cancelling ctx
// cancels every outstanding fetch. Merge order is insensitive to fetch
// completion order - per-date summation is commutative and the final
// ordering comes from an explicit sort.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	portfolios []domain.Portfolio,
	months int,
	displayCurrency string,
) []DataPoint {
	if len(portfolios) == 0 || displayCurrency == "" {
		return []DataPoint{}
	}

	codes := make([]string, len(portfolios))
	for i, p := range portfolios {
		codes[i] = p.Code
	}
	key := CacheKey(codes, months, displayCurrency)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	log := a.log.With().Str("run_id", uuid.New().String()).Logger()

	results := make(chan fetchResult, len(portfolios))
	var wg sync.WaitGroup
	for _, p := range portfolios {
		wg.Add(1)
		go func(p domain.Portfolio) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
			defer cancel()

			series, err := a.fetcher.FetchSeries(fetchCtx, p.Code, months)
			results <- fetchResult{portfolio: p, series: series, err: err}
		}(p)
	}
	wg.Wait()
	close(results)

	merged := make(map[string]*DataPoint)
	fetched := 0
	for res := range results {
		if res.err != nil {
			// Best effort: a failed portfolio is dropped from the merge
			log.Warn().
				Err(res.err).
				Str("portfolio", res.portfolio.Code).
				Msg("Series fetch failed, excluding portfolio from merge")
			continue
		}
		fetched++

		rate := a.rates.RateOrDefault(res.portfolio.Currency.Code, displayCurrency)
		for _, pt := range res.series {
			dp, ok := merged[pt.Date]
			if !ok {
				dp = &DataPoint{Date: pt.Date}
				merged[pt.Date] = dp
			}
			dp.MarketValue += pt.MarketValue * rate
			dp.NetContributions += pt.NetContributions * rate
			dp.CumulativeDividends += pt.CumulativeDividends * rate
		}
	}

	points := make([]DataPoint, 0, len(merged))
	for _, dp := range merged {
		points = append(points, *dp)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	deriveMetrics(points)

	log.Debug().
		Int("portfolios", len(portfolios)).
		Int("fetched", fetched).
		Int("points", len(points)).
		Str("currency", displayCurrency).
		Int("months", months).
		Msg("Aggregated performance series")

	// Only a run where every portfolio resolved is the idempotent result
	// the cache exists for. A truncated run (cancelled context, failed
	// fetches) must not shadow a later healthy run for the TTL window.
	if ctx.Err() == nil && fetched == len(portfolios) {
		a.cache.Put(key, points)
	}
	return points
}

// deriveMetrics fills the derived fields using the first merged point as
// the baseline. A zero baseline leaves growthOf1000 and cumulativeReturn
// at 0 rather than dividing by zero.
func deriveMetrics(points []DataPoint) {
	if len(points) == 0 {
		return
	}

	baseline := points[0].MarketValue
	for i := range points {
		p := &points[i]
		p.InvestmentGain = p.MarketValue - p.NetContributions
		if baseline != 0 {
			p.GrowthOf1000 = 1000 * p.MarketValue / baseline
			p.CumulativeReturn = p.MarketValue/baseline - 1
		}
	}
}
