package holdings

import "github.com/periphas/folio/internal/domain"

// NewMoneyValues returns a zero-valued subtotal record tagged with its
// currency and valuation basis. Every numeric field starts at 0 so folding
// is total over any contract.
func NewMoneyValues(currency domain.Currency, basis domain.ValuationBasis) *domain.MoneyValues {
	return &domain.MoneyValues{
		Currency: currency,
		Basis:    basis,
	}
}

// Fold adds a position's monetary values at the given basis into the
// running subtotal.
//
// Cash-related assets contribute their market value to the cash bucket and
// skip gainOnDay entirely: cash has no meaningful day-over-day price change
// and must not pollute the group's day gain.
func Fold(total *domain.MoneyValues, pos domain.Position, basis domain.ValuationBasis) {
	v := pos.Values(basis)

	total.MarketValue += v.MarketValue
	total.CostValue += v.CostValue
	total.Dividends += v.Dividends
	total.RealisedGain += v.RealisedGain
	total.UnrealisedGain += v.UnrealisedGain
	total.IRR += v.IRR
	total.TotalGain += v.TotalGain

	if pos.Asset.IsCashRelated() {
		total.Cash += v.MarketValue
		total.Weight += v.Weight
		return
	}

	total.Purchases += v.Purchases
	total.Sales += v.Sales
	total.Weight += v.Weight

	if v.PriceData != (domain.PriceData{}) {
		total.GainOnDay += v.GainOnDay
	}
}
