package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/periphas/folio/internal/config"
	"github.com/periphas/folio/internal/domain"
	allocationmod "github.com/periphas/folio/internal/modules/allocation"
	allocationhandlers "github.com/periphas/folio/internal/modules/allocation/handlers"
	currencyhandlers "github.com/periphas/folio/internal/modules/currency/handlers"
	holdingsmod "github.com/periphas/folio/internal/modules/holdings"
	holdingshandlers "github.com/periphas/folio/internal/modules/holdings/handlers"
	performancemod "github.com/periphas/folio/internal/modules/performance"
	performancehandlers "github.com/periphas/folio/internal/modules/performance/handlers"
	folioTesting "github.com/periphas/folio/internal/testing"
)

// stubBackend fakes the positions backend for routing tests.
type stubBackend struct {
	contract   domain.HoldingContract
	portfolios []domain.Portfolio
	currencies []domain.Currency
	series     map[string][]domain.SeriesPoint
	err        error
}

func (s *stubBackend) GetHoldings(ctx context.Context, code string) (*domain.HoldingContract, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := s.contract
	return &c, nil
}

func (s *stubBackend) GetPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.portfolios, nil
}

func (s *stubBackend) GetCurrencies(ctx context.Context) ([]domain.Currency, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.currencies, nil
}

func (s *stubBackend) FetchSeries(ctx context.Context, code string, months int) ([]domain.SeriesPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	series, ok := s.series[code]
	if !ok {
		return nil, fmt.Errorf("unknown portfolio %s", code)
	}
	return series, nil
}

type unitRates struct{}

func (unitRates) RateOrDefault(from, to string) float64 { return 1.0 }

func newTestServer(t *testing.T, backend *stubBackend) *Server {
	t.Helper()

	log := zerolog.Nop()

	perfAgg := performancemod.NewAggregator(
		backend,
		unitRates{},
		performancemod.NewResultCache(performancemod.DefaultResultTTL),
		time.Second,
		log,
	)

	return New(Config{
		Log: log,
		Config: &config.Config{
			Port:         8080,
			DevMode:      true,
			BaseCurrency: "USD",
		},
		HoldingsHandlers:    holdingshandlers.NewHandler(backend, holdingsmod.NewAggregator(log), log),
		AllocationHandlers:  allocationhandlers.NewHandler(backend, allocationmod.NewBuilder(log), log),
		PerformanceHandlers: performancehandlers.NewHandler(backend, perfAgg, "USD", log),
		CurrencyHandlers:    currencyhandlers.NewHandler(backend, log),
		SystemHandlers:      NewSystemHandlers(log),
	})
}

func doRequest(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &stubBackend{})

	rec, body := doRequest(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHoldingsEndpoint(t *testing.T) {
	backend := &stubBackend{contract: folioTesting.NewHoldingContract()}
	s := newTestServer(t, backend)

	rec, body := doRequest(t, s, "/api/portfolios/GROWTH/holdings?groupBy=class&valueIn=portfolio")
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	groups, ok := data["holding_groups"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, groups, "Equity")
	assert.Contains(t, groups, "Cash")

	metadata, ok := body["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, metadata["timestamp"])
}

func TestHoldingsEndpoint_BackendFailure(t *testing.T) {
	backend := &stubBackend{err: fmt.Errorf("backend down")}
	s := newTestServer(t, backend)

	rec, body := doRequest(t, s, "/api/portfolios/GROWTH/holdings")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestAllocationsEndpoint(t *testing.T) {
	backend := &stubBackend{contract: folioTesting.NewHoldingContract()}
	s := newTestServer(t, backend)

	rec, body := doRequest(t, s, "/api/portfolios/GROWTH/allocations?groupBy=class")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	slices, ok := data["slices"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, slices)
}

func TestPerformanceEndpoint(t *testing.T) {
	backend := &stubBackend{
		portfolios: []domain.Portfolio{
			{Code: "GROWTH", Currency: folioTesting.USD()},
		},
		series: map[string][]domain.SeriesPoint{
			"GROWTH": {
				{Date: "2026-07-31", MarketValue: 10000, NetContributions: 8000},
				{Date: "2026-08-31", MarketValue: 11000, NetContributions: 8000},
			},
		},
	}
	s := newTestServer(t, backend)

	rec, body := doRequest(t, s, "/api/performance?codes=GROWTH&months=12&currency=USD")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	series, ok := data["series"].([]interface{})
	require.True(t, ok)
	require.Len(t, series, 2)
	assert.Equal(t, "USD", data["currency"])
}

func TestPerformanceEndpoint_MissingCodes(t *testing.T) {
	s := newTestServer(t, &stubBackend{})

	rec, body := doRequest(t, s, "/api/performance")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestPerformanceEndpoint_InvalidMonths(t *testing.T) {
	s := newTestServer(t, &stubBackend{})

	rec, _ := doRequest(t, s, "/api/performance?codes=GROWTH&months=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrenciesEndpoint(t *testing.T) {
	backend := &stubBackend{
		currencies: []domain.Currency{
			{Code: "USD", Name: "US Dollar", Symbol: "$"},
			{Code: "NZD", Name: "New Zealand Dollar", Symbol: "$"},
		},
	}
	s := newTestServer(t, backend)

	rec, body := doRequest(t, s, "/api/currencies")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	currencies, ok := data["currencies"].([]interface{})
	require.True(t, ok)
	assert.Len(t, currencies, 2)
}

func TestSystemStatusEndpoint(t *testing.T) {
	s := newTestServer(t, &stubBackend{})

	rec, body := doRequest(t, s, "/api/system/status")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.GreaterOrEqual(t, data["uptime_seconds"].(float64), 0.0)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, &stubBackend{})

	rec, _ := doRequest(t, s, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
