// Package allocation builds percentage-of-total slices for pie and treemap
// charts from an aggregated holdings contract.
package allocation

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
	"github.com/periphas/folio/internal/modules/holdings"
)

// Slice is one chart segment: a group's share of the total market value
type Slice struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// categoryColors fixes the chart color per report category
var categoryColors = map[string]string{
	holdings.CategoryEquity:     "#2563eb",
	holdings.CategoryETF:        "#0891b2",
	holdings.CategoryMutualFund: "#7c3aed",
	holdings.CategoryProperty:   "#d97706",
	holdings.CategoryCash:       "#16a34a",
}

// fallbackPalette is cycled by insertion index for keys without a fixed color
var fallbackPalette = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e", "#14b8a6",
	"#3b82f6", "#8b5cf6", "#ec4899", "#64748b", "#a16207",
}

// Builder produces allocation slices from holdings contracts
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a new allocation slice builder
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		log: log.With().Str("service", "allocation").Logger(),
	}
}

// BuildSlices groups the contract's positions by the given dimension, sums
// market value at the requested basis per bucket, and returns slices sorted
// descending by value. Equal values tie-break alphabetically by group key
// so the ordering is deterministic.
//
// Returns an empty list when the total is exactly zero - no slice ever
// carries a NaN percentage.
func (b *Builder) BuildSlices(
	contract domain.HoldingContract,
	dim holdings.GroupDimension,
	basis domain.ValuationBasis,
) []Slice {
	values := make(map[string]float64)
	var order []string

	// Fold in position-key order so palette assignment by insertion index
	// is stable across requests.
	posKeys := make([]string, 0, len(contract.Positions))
	for key := range contract.Positions {
		posKeys = append(posKeys, key)
	}
	sort.Strings(posKeys)

	total := 0.0
	for _, posKey := range posKeys {
		pos := contract.Positions[posKey]
		key := holdings.GroupKey(dim, pos)

		if _, seen := values[key]; !seen {
			order = append(order, key)
		}

		value := pos.Values(basis).MarketValue
		values[key] += value
		total += value
	}

	if total == 0 {
		b.log.Debug().
			Str("portfolio", contract.Portfolio.Code).
			Str("group_by", string(dim)).
			Msg("Zero total value, returning no slices")
		return []Slice{}
	}

	slices := make([]Slice, 0, len(order))
	for i, key := range order {
		slices = append(slices, Slice{
			Key:        key,
			Label:      key,
			Value:      values[key],
			Percentage: values[key] / total * 100,
			Color:      colorFor(key, i),
		})
	}

	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Key < slices[j].Key
	})

	return slices
}

// colorFor returns the fixed category color, or cycles the fallback palette
// by insertion index for keys without one.
func colorFor(key string, index int) string {
	if color, ok := categoryColors[key]; ok {
		return color
	}
	return fallbackPalette[index%len(fallbackPalette)]
}
