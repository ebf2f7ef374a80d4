package services

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRateClient returns canned rates keyed by "FROM:TO".
type stubRateClient struct {
	rates map[string]float64
	errs  map[string]error
	calls int
}

func (s *stubRateClient) GetRate(from, to string) (float64, error) {
	s.calls++
	key := from + ":" + to
	if err, ok := s.errs[key]; ok {
		return 0, err
	}
	if rate, ok := s.rates[key]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("no rate for %s", key)
}

func TestGetRate_SameCurrency(t *testing.T) {
	client := &stubRateClient{}
	svc := NewRateService(client, nil, zerolog.Nop())

	rate, err := svc.GetRate("USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 0, client.calls, "same-currency lookup should not hit the client")
}

func TestGetRate_Delegates(t *testing.T) {
	client := &stubRateClient{rates: map[string]float64{"USD:NZD": 1.66}}
	svc := NewRateService(client, nil, zerolog.Nop())

	rate, err := svc.GetRate("USD", "NZD")
	require.NoError(t, err)
	assert.Equal(t, 1.66, rate)
}

func TestGetRate_InvalidRate(t *testing.T) {
	client := &stubRateClient{rates: map[string]float64{"USD:NZD": 0}}
	svc := NewRateService(client, nil, zerolog.Nop())

	_, err := svc.GetRate("USD", "NZD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate")
}

func TestRateOrDefault_FallsBackToOne(t *testing.T) {
	client := &stubRateClient{}
	svc := NewRateService(client, nil, zerolog.Nop())

	rate := svc.RateOrDefault("USD", "XXX")
	assert.Equal(t, 1.0, rate)
}

func TestRateOrDefault_ReturnsRate(t *testing.T) {
	client := &stubRateClient{rates: map[string]float64{"NZD:USD": 0.60}}
	svc := NewRateService(client, nil, zerolog.Nop())

	rate := svc.RateOrDefault("NZD", "USD")
	assert.Equal(t, 0.60, rate)
}

func TestSyncRates_PartialSuccessOK(t *testing.T) {
	client := &stubRateClient{
		rates: map[string]float64{
			"USD:EUR": 0.92,
			"EUR:USD": 1.09,
		},
		errs: map[string]error{
			"USD:GBP": fmt.Errorf("api down"),
			"GBP:USD": fmt.Errorf("api down"),
			"EUR:GBP": fmt.Errorf("api down"),
			"GBP:EUR": fmt.Errorf("api down"),
		},
	}
	svc := NewRateService(client, []string{"USD", "EUR", "GBP"}, zerolog.Nop())

	err := svc.SyncRates()
	require.NoError(t, err, "partial success should not error")
}

func TestSyncRates_AllFail(t *testing.T) {
	client := &stubRateClient{}
	svc := NewRateService(client, []string{"USD", "EUR"}, zerolog.Nop())

	err := svc.SyncRates()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all rate fetches failed")
}

func TestSyncRates_NoCurrencies(t *testing.T) {
	client := &stubRateClient{}
	svc := NewRateService(client, nil, zerolog.Nop())

	err := svc.SyncRates()
	require.NoError(t, err)
	assert.Equal(t, 0, client.calls)
}
