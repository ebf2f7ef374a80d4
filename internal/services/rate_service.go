// Package services contains application services that coordinate clients and modules.
package services

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RateClient defines the contract for fetching exchange rates.
type RateClient interface {
	GetRate(fromCurrency, toCurrency string) (float64, error)
}

// RateService provides exchange rates for valuation conversions.
// Lookups that fail resolve to a rate of 1 so a missing rate never
// breaks an aggregation, only skews the converted figures.
type RateService struct {
	client         RateClient
	syncCurrencies []string
	log            zerolog.Logger
}

// NewRateService creates a new rate service.
// syncCurrencies lists the currency codes warmed by SyncRates.
func NewRateService(client RateClient, syncCurrencies []string, log zerolog.Logger) *RateService {
	return &RateService{
		client:         client,
		syncCurrencies: syncCurrencies,
		log:            log.With().Str("service", "rates").Logger(),
	}
}

// GetRate returns the exchange rate from one currency to another.
func (s *RateService) GetRate(fromCurrency, toCurrency string) (float64, error) {
	if fromCurrency == toCurrency {
		return 1.0, nil
	}

	rate, err := s.client.GetRate(fromCurrency, toCurrency)
	if err != nil {
		return 0, fmt.Errorf("failed to get rate %s->%s: %w", fromCurrency, toCurrency, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("invalid rate %f for %s->%s", rate, fromCurrency, toCurrency)
	}

	return rate, nil
}

// RateOrDefault returns the exchange rate, or 1 when the rate cannot be
// resolved. The failure is logged but never propagated: converted values
// fall back to their unconverted amounts.
func (s *RateService) RateOrDefault(fromCurrency, toCurrency string) float64 {
	rate, err := s.GetRate(fromCurrency, toCurrency)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("from", fromCurrency).
			Str("to", toCurrency).
			Msg("Rate unavailable, defaulting to 1")
		return 1.0
	}
	return rate
}

// SyncRates warms the cache for all pairs of the configured currencies.
// Returns error only if ALL rate fetches fail - partial success is OK
// and logged as warnings.
func (s *RateService) SyncRates() error {
	errorCount := 0
	successCount := 0

	for _, from := range s.syncCurrencies {
		for _, to := range s.syncCurrencies {
			if from == to {
				continue
			}

			rate, err := s.client.GetRate(from, to)
			if err != nil {
				s.log.Warn().
					Err(err).
					Str("from", from).
					Str("to", to).
					Msg("Failed to sync rate")
				errorCount++
				continue
			}

			s.log.Debug().
				Str("from", from).
				Str("to", to).
				Float64("rate", rate).
				Msg("Synced exchange rate")

			successCount++
		}
	}

	s.log.Info().
		Int("success", successCount).
		Int("errors", errorCount).
		Msg("Exchange rate sync completed")

	if successCount == 0 && errorCount > 0 {
		return fmt.Errorf("all rate fetches failed")
	}

	return nil
}
