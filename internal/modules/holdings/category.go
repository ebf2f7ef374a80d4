// Package holdings implements the valuation and aggregation core: it folds
// pre-priced positions into grouped, per-basis monetary subtotals and
// market-value-weighted returns.
package holdings

import (
	"strings"

	"github.com/periphas/folio/internal/domain"
)

// Normalized report categories
const (
	CategoryEquity     = "Equity"
	CategoryETF        = "ETF"
	CategoryMutualFund = "Mutual Fund"
	CategoryProperty   = "Property"
	CategoryCash       = "Cash"

	// SectorUnclassified buckets positions whose asset has no sector
	SectorUnclassified = "Unclassified"
)

// reportCategories maps uppercased raw category labels to display categories
var reportCategories = map[string]string{
	"CASH":                  CategoryCash,
	"ACCOUNT":               CategoryCash,
	"TRADE":                 CategoryCash,
	"BANK ACCOUNT":          CategoryCash,
	"EQUITY":                CategoryEquity,
	"RE":                    CategoryProperty,
	"REAL ESTATE":           CategoryProperty,
	"EXCHANGE TRADED FUND":  CategoryETF,
	"ETF":                   CategoryETF,
	"MUTUAL FUND":           CategoryMutualFund,
}

// categoryRank fixes the display order of report categories; unknown
// categories sort after all known ones.
var categoryRank = map[string]int{
	CategoryEquity:     0,
	CategoryETF:        1,
	CategoryMutualFund: 2,
	CategoryProperty:   3,
	CategoryCash:       4,
}

// ResolveReportCategory maps an asset's raw category label to a normalized
// report category. A precomputed category supplied upstream wins. Unmatched
// labels are returned unchanged so an odd contract still renders.
func ResolveReportCategory(asset domain.Asset) string {
	if asset.ReportCategory != "" {
		return asset.ReportCategory
	}

	if normalized, ok := reportCategories[strings.ToUpper(asset.Category)]; ok {
		return normalized
	}

	return asset.Category
}

// CategoryLess orders report categories for display: Equity, ETF,
// Mutual Fund, Property, Cash, then unknowns alphabetically.
func CategoryLess(a, b string) bool {
	rankA, okA := categoryRank[a]
	rankB, okB := categoryRank[b]

	switch {
	case okA && okB:
		return rankA < rankB
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// SectorLess orders sectors alphabetically, except Cash is always last and
// Unclassified second-to-last.
func SectorLess(a, b string) bool {
	if a == b {
		return false
	}
	if rankA, rankB := sectorRank(a), sectorRank(b); rankA != rankB {
		return rankA < rankB
	}
	return a < b
}

func sectorRank(sector string) int {
	switch sector {
	case CategoryCash:
		return 2
	case SectorUnclassified:
		return 1
	default:
		return 0
	}
}
