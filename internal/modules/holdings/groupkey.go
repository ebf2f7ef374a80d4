package holdings

import (
	"strings"

	"github.com/periphas/folio/internal/domain"
)

// GroupDimension selects how positions are bucketed into holding groups.
// The set is closed: every dimension resolves through a typed accessor, so
// there is no dynamic property-path lookup to fail at runtime.
type GroupDimension string

const (
	// ByAssetClass groups by normalized report category
	ByAssetClass GroupDimension = "class"
	// BySector groups by the asset's sector
	BySector GroupDimension = "sector"
	// ByMarket groups by the asset's market code
	ByMarket GroupDimension = "market"
	// ByMarketCurrency groups by the currency the asset trades in
	ByMarketCurrency GroupDimension = "currency"
)

// GroupUnknown buckets positions whose asset genuinely lacks the grouping
// attribute. It is an intentional display bucket, not an error.
const GroupUnknown = "Unknown"

// ParseDimension maps a request parameter to a GroupDimension, defaulting
// to asset class for unknown values.
func ParseDimension(s string) GroupDimension {
	switch GroupDimension(strings.ToLower(strings.TrimSpace(s))) {
	case BySector:
		return BySector
	case ByMarket:
		return ByMarket
	case ByMarketCurrency:
		return ByMarketCurrency
	default:
		return ByAssetClass
	}
}

// GroupKey returns the bucket key for a position under the given dimension.
// It never fails: missing attributes resolve to GroupUnknown so the table
// stays renderable.
func GroupKey(dim GroupDimension, pos domain.Position) string {
	switch dim {
	case BySector:
		if sector := pos.Asset.Sector; sector != "" {
			return sector
		}
		return SectorUnclassified

	case ByMarket:
		// Cash-equivalents land in the "CASH" market bucket because that
		// is their market code upstream.
		if code := pos.Asset.Market.Code; code != "" {
			return code
		}
		return GroupUnknown

	case ByMarketCurrency:
		// A cash-equivalent's own code is the currency it represents; its
		// market currency would misfile it.
		if pos.Asset.IsCashRelated() {
			if code := pos.Asset.Code; code != "" {
				return code
			}
			return GroupUnknown
		}
		if code := pos.Asset.Market.Currency.Code; code != "" {
			return code
		}
		return GroupUnknown

	default:
		return ResolveReportCategory(pos.Asset)
	}
}

// GroupLess orders group keys for display under the given dimension:
// report-category order for asset class, the sector ordering for sectors,
// and alphabetical for markets and currencies.
func GroupLess(dim GroupDimension, a, b string) bool {
	switch dim {
	case ByAssetClass:
		return CategoryLess(a, b)
	case BySector:
		return SectorLess(a, b)
	default:
		return a < b
	}
}
