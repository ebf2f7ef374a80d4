package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Short-lived data (FX rates move intraday)
	TTLExchangeRate = 5 * time.Minute

	// Near-static data (currency catalogue rarely changes)
	TTLCurrencies = time.Hour
)
