// Package domain provides core domain models and types.
//
// Everything here is a derived, ephemeral view object: contracts arrive
// pre-priced from the upstream positions backend and nothing in this
// package is ever persisted.
package domain

import "strings"

// ValuationBasis identifies the currency perspective a monetary record is
// expressed in. Every position carries one MoneyValues record per basis.
type ValuationBasis string

const (
	// BasisTrade values the position in the currency it trades in
	BasisTrade ValuationBasis = "TRADE"
	// BasisBase values the position in the system base currency
	BasisBase ValuationBasis = "BASE"
	// BasisPortfolio values the position in the owning portfolio's currency
	BasisPortfolio ValuationBasis = "PORTFOLIO"
)

// Bases lists all valuation bases in folding order
var Bases = []ValuationBasis{BasisTrade, BasisBase, BasisPortfolio}

// ParseBasis maps a request parameter to a ValuationBasis, defaulting to
// the portfolio basis for unknown values.
func ParseBasis(s string) ValuationBasis {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRADE":
		return BasisTrade
	case "BASE":
		return BasisBase
	default:
		return BasisPortfolio
	}
}

// Currency is an immutable currency value, compared by code
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// Market identifies the exchange an asset trades on
type Market struct {
	Code     string   `json:"code"`
	Currency Currency `json:"currency"`
}

// Asset describes one instrument as supplied by the upstream contract
type Asset struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Category       string `json:"category"`        // raw upstream category label
	ReportCategory string `json:"report_category"` // precomputed normalized category, optional
	Sector         string `json:"sector"`
	Market         Market `json:"market"`
}

// cashCategories are the raw category labels treated as cash-related.
var cashCategories = map[string]bool{
	"CASH":         true,
	"ACCOUNT":      true,
	"TRADE":        true,
	"BANK ACCOUNT": true,
}

// IsCashRelated reports whether the asset represents currency, a bank
// account, or a trade-settlement balance. Cash-related assets are excluded
// from IRR and day-gain calculations.
func (a Asset) IsCashRelated() bool {
	return cashCategories[strings.ToUpper(a.Category)]
}

// IsAccount reports whether the asset is a bank/settlement account.
// Account positions stay visible even at zero balance.
func (a Asset) IsAccount() bool {
	upper := strings.ToUpper(a.Category)
	return upper == "ACCOUNT" || upper == "BANK ACCOUNT"
}

// QuantityValues holds quantity totals for a position
type QuantityValues struct {
	Total     float64 `json:"total"`
	Purchased float64 `json:"purchased"`
	Sold      float64 `json:"sold"`
}

// PriceData carries the daily price-change snapshot for a position
type PriceData struct {
	Close         float64 `json:"close"`
	PreviousClose float64 `json:"previous_close"`
	ChangePercent float64 `json:"change_percent"`
}

// MoneyValues is the monetary record for one valuation basis. All numeric
// fields default to zero, never undefined, so accumulation is total.
type MoneyValues struct {
	Currency       Currency       `json:"currency"`
	Basis          ValuationBasis `json:"basis"`
	MarketValue    float64        `json:"market_value"`
	CostValue      float64        `json:"cost_value"`
	Dividends      float64        `json:"dividends"`
	RealisedGain   float64        `json:"realised_gain"`
	UnrealisedGain float64        `json:"unrealised_gain"`
	TotalGain      float64        `json:"total_gain"`
	Fees           float64        `json:"fees"`
	Tax            float64        `json:"tax"`
	Cash           float64        `json:"cash"`
	Purchases      float64        `json:"purchases"`
	Sales          float64        `json:"sales"`
	Weight         float64        `json:"weight"`
	ROI            float64        `json:"roi"`
	IRR            float64        `json:"irr"`
	GainOnDay      float64        `json:"gain_on_day"`
	AverageCost    float64        `json:"average_cost"`
	WeightedIRR    float64        `json:"weighted_irr"` // group-level only
	PriceData      PriceData      `json:"price_data"`
}

// Position is one asset's holding within one portfolio, already priced
// upstream, with exactly one MoneyValues record per basis.
type Position struct {
	Asset       Asset                           `json:"asset"`
	Quantity    QuantityValues                  `json:"quantity"`
	MoneyValues map[ValuationBasis]*MoneyValues `json:"money_values"`
}

// Values returns the monetary record for the given basis, or a zeroed
// record when the contract omits one. Callers never see nil.
func (p Position) Values(basis ValuationBasis) *MoneyValues {
	if mv, ok := p.MoneyValues[basis]; ok && mv != nil {
		return mv
	}
	return &MoneyValues{Basis: basis}
}

// Total holds portfolio-level totals as supplied by the upstream contract.
// These are passed through, never recomputed.
type Total struct {
	Currency    Currency `json:"currency"`
	MarketValue float64  `json:"market_value"`
	Purchases   float64  `json:"purchases"`
	Sales       float64  `json:"sales"`
	Cash        float64  `json:"cash"`
	Income      float64  `json:"income"`
	Gain        float64  `json:"gain"`
	IRR         float64  `json:"irr"`
}

// Portfolio identifies the owning portfolio of a holdings contract
type Portfolio struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Currency Currency `json:"currency"`
	Base     Currency `json:"base"`
}

// HoldingContract is the raw per-portfolio contract consumed by the
// aggregation core.
type HoldingContract struct {
	Portfolio Portfolio                `json:"portfolio"`
	Positions map[string]Position      `json:"positions"`
	Totals    map[ValuationBasis]Total `json:"totals"`
}

// HoldingGroup is a named bucket of positions with per-basis subtotals
type HoldingGroup struct {
	Name      string                          `json:"name"`
	Positions []Position                      `json:"positions"`
	Subtotals map[ValuationBasis]*MoneyValues `json:"subtotals"`
}

// Subtotal returns the group's monetary record for the given basis,
// creating nothing; missing bases report as zeroed records.
func (g *HoldingGroup) Subtotal(basis ValuationBasis) *MoneyValues {
	if mv, ok := g.Subtotals[basis]; ok && mv != nil {
		return mv
	}
	return &MoneyValues{Basis: basis}
}

// Holdings is the fully grouped and summed view of one portfolio
type Holdings struct {
	Portfolio  Portfolio                `json:"portfolio"`
	Groups     map[string]*HoldingGroup `json:"holding_groups"`
	Basis      ValuationBasis           `json:"basis"`
	Currency   Currency                 `json:"currency"`
	Totals     Total                    `json:"totals"`
	ViewTotals MoneyValues              `json:"view_totals"`
}

// SeriesPoint is one calendar date of a single portfolio's performance
// series as returned by the upstream backend.
type SeriesPoint struct {
	Date                string  `json:"date"` // YYYY-MM-DD
	MarketValue         float64 `json:"market_value"`
	NetContributions    float64 `json:"net_contributions"`
	CumulativeDividends float64 `json:"cumulative_dividends"`
	GrowthOf1000        float64 `json:"growth_of_1000"`
	CumulativeReturn    float64 `json:"cumulative_return"`
}
