package scheduler

import (
	"github.com/rs/zerolog"
)

// RateSyncer warms the exchange rate cache for the configured currencies.
type RateSyncer interface {
	SyncRates() error
}

// FxSyncJob refreshes exchange rates on a schedule so valuation requests
// rarely pay the cost of a live API call.
type FxSyncJob struct {
	rates RateSyncer
	log   zerolog.Logger
}

// NewFxSyncJob creates a new FX rate sync job.
func NewFxSyncJob(rates RateSyncer, log zerolog.Logger) *FxSyncJob {
	return &FxSyncJob{
		rates: rates,
		log:   log.With().Str("job", "fx_sync").Logger(),
	}
}

// Run refreshes all configured currency pairs.
func (j *FxSyncJob) Run() error {
	if err := j.rates.SyncRates(); err != nil {
		j.log.Error().Err(err).Msg("FX rate sync failed")
		return err
	}
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *FxSyncJob) Name() string {
	return "fx_sync"
}
