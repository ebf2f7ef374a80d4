package holdings

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/periphas/folio/internal/domain"
)

// WeightedIRR computes the market-value-weighted return for a set of
// positions at the given basis: sum(irr*marketValue)/sum(marketValue) over
// positions that are not cash-related, have a positive market value, and a
// finite IRR.
//
// Returns 0 when no position qualifies. Callers must treat that as "no
// data", not "zero return". IRR is not additive, so this runs once per
// group after all its positions are folded.
func WeightedIRR(positions []domain.Position, basis domain.ValuationBasis) float64 {
	var irrs, weights []float64

	for _, pos := range positions {
		if pos.Asset.IsCashRelated() {
			continue
		}

		v := pos.Values(basis)
		if v.MarketValue <= 0 {
			continue
		}
		if math.IsNaN(v.IRR) || math.IsInf(v.IRR, 0) {
			continue
		}

		irrs = append(irrs, v.IRR)
		weights = append(weights, v.MarketValue)
	}

	if len(irrs) == 0 {
		return 0
	}

	return stat.Mean(irrs, weights)
}
