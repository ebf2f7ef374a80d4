package holdings

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
)

// Aggregator produces the grouped and summed view of one portfolio's raw
// holdings contract.
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new holdings aggregator
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		log: log.With().Str("service", "holdings").Logger(),
	}
}

// Aggregate groups the contract's positions by the given dimension and
// folds them into per-basis subtotals, weighted IRRs, and view totals.
//
// Positions are filtered first: account-type assets stay visible regardless
// of balance, everything else is dropped when hideEmpty is set and the held
// quantity is exactly zero. An empty portfolio yields an empty group map
// and zeroed view totals, never an error.
func (a *Aggregator) Aggregate(
	contract domain.HoldingContract,
	hideEmpty bool,
	basis domain.ValuationBasis,
	dim GroupDimension,
) domain.Holdings {
	groups := make(map[string]*domain.HoldingGroup)

	// Positions arrive in a map; fold in key order so the group currency,
	// fixed by the first position folded into each bucket, is deterministic.
	keys := make([]string, 0, len(contract.Positions))
	for key := range contract.Positions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pos := contract.Positions[key]

		if hideEmpty && !pos.Asset.IsAccount() && pos.Quantity.Total == 0 {
			continue
		}

		groupKey := GroupKey(dim, pos)
		group, ok := groups[groupKey]
		if !ok {
			// The group's display currency per basis is fixed by the first
			// position folded into the bucket. A bucket that legitimately
			// mixes currencies keeps the first one - accepted approximation.
			group = &domain.HoldingGroup{
				Name:      groupKey,
				Subtotals: make(map[domain.ValuationBasis]*domain.MoneyValues, len(domain.Bases)),
			}
			for _, b := range domain.Bases {
				group.Subtotals[b] = NewMoneyValues(pos.Values(b).Currency, b)
			}
			groups[groupKey] = group
		}

		group.Positions = append(group.Positions, pos)
		for _, b := range domain.Bases {
			Fold(group.Subtotals[b], pos, b)
		}
	}

	// Weighted IRR is a ratio and therefore basis-independent: compute it
	// once per group and stamp it onto all three basis records.
	for _, group := range groups {
		wirr := WeightedIRR(group.Positions, basis)
		for _, b := range domain.Bases {
			group.Subtotals[b].WeightedIRR = wirr
		}
	}

	currency := displayCurrency(contract, basis)
	view := rollUpView(groups, currency, basis)

	totals, ok := contract.Totals[basis]
	if !ok {
		// Empty portfolio contracts carry no totals; report zeros in the
		// portfolio's own currency.
		totals = domain.Total{Currency: contract.Portfolio.Currency}
	}

	a.log.Debug().
		Str("portfolio", contract.Portfolio.Code).
		Str("basis", string(basis)).
		Str("group_by", string(dim)).
		Int("positions", len(contract.Positions)).
		Int("groups", len(groups)).
		Float64("market_value", view.MarketValue).
		Msg("Aggregated holdings")

	return domain.Holdings{
		Portfolio:  contract.Portfolio,
		Groups:     groups,
		Basis:      basis,
		Currency:   currency,
		Totals:     totals,
		ViewTotals: view,
	}
}

// rollUpView sums every group's chosen-basis subtotal into one view-level
// record.
func rollUpView(
	groups map[string]*domain.HoldingGroup,
	currency domain.Currency,
	basis domain.ValuationBasis,
) domain.MoneyValues {
	view := *NewMoneyValues(currency, basis)

	for _, group := range groups {
		st := group.Subtotal(basis)
		view.MarketValue += st.MarketValue
		view.Weight += st.Weight
		view.Purchases += st.Purchases
		view.Sales += st.Sales
		view.Cash += st.Cash
		view.Dividends += st.Dividends
		view.GainOnDay += st.GainOnDay
		view.RealisedGain += st.RealisedGain
		view.UnrealisedGain += st.UnrealisedGain
		view.TotalGain += st.TotalGain
		view.CostValue += st.CostValue
	}

	return view
}

// displayCurrency picks the currency the view is expressed in for a basis.
func displayCurrency(contract domain.HoldingContract, basis domain.ValuationBasis) domain.Currency {
	switch basis {
	case domain.BasisBase:
		return contract.Portfolio.Base
	case domain.BasisPortfolio:
		return contract.Portfolio.Currency
	default:
		if totals, ok := contract.Totals[basis]; ok && totals.Currency.Code != "" {
			return totals.Currency
		}
		return contract.Portfolio.Currency
	}
}

// GroupKeys returns the holding group names ordered for display under the
// given dimension.
func GroupKeys(holdings domain.Holdings, dim GroupDimension) []string {
	keys := make([]string, 0, len(holdings.Groups))
	for key := range holdings.Groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return GroupLess(dim, keys[i], keys[j])
	})
	return keys
}
