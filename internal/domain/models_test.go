package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBasis(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ValuationBasis
	}{
		{"trade lowercase", "trade", BasisTrade},
		{"trade uppercase", "TRADE", BasisTrade},
		{"base", "base", BasisBase},
		{"portfolio", "portfolio", BasisPortfolio},
		{"whitespace trimmed", "  base  ", BasisBase},
		{"unknown defaults to portfolio", "bogus", BasisPortfolio},
		{"empty defaults to portfolio", "", BasisPortfolio},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseBasis(tc.input))
		})
	}
}

func TestAssetIsCashRelated(t *testing.T) {
	tests := []struct {
		category string
		expected bool
	}{
		{"CASH", true},
		{"cash", true},
		{"Account", true},
		{"TRADE", true},
		{"Bank Account", true},
		{"Equity", false},
		{"ETF", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.category, func(t *testing.T) {
			a := Asset{Category: tc.category}
			assert.Equal(t, tc.expected, a.IsCashRelated())
		})
	}
}

func TestAssetIsAccount(t *testing.T) {
	assert.True(t, Asset{Category: "ACCOUNT"}.IsAccount())
	assert.True(t, Asset{Category: "bank account"}.IsAccount())
	assert.False(t, Asset{Category: "CASH"}.IsAccount())
	assert.False(t, Asset{Category: "Equity"}.IsAccount())
}

func TestPositionValues_MissingBasis(t *testing.T) {
	p := Position{
		MoneyValues: map[ValuationBasis]*MoneyValues{
			BasisTrade: {Basis: BasisTrade, MarketValue: 100},
		},
	}

	// Present basis returns the record
	assert.Equal(t, 100.0, p.Values(BasisTrade).MarketValue)

	// Missing basis returns a zeroed record, never nil
	mv := p.Values(BasisBase)
	assert.NotNil(t, mv)
	assert.Equal(t, BasisBase, mv.Basis)
	assert.Zero(t, mv.MarketValue)
}

func TestPositionValues_NilEntry(t *testing.T) {
	p := Position{
		MoneyValues: map[ValuationBasis]*MoneyValues{
			BasisPortfolio: nil,
		},
	}

	mv := p.Values(BasisPortfolio)
	assert.NotNil(t, mv)
	assert.Zero(t, mv.MarketValue)
}

func TestHoldingGroupSubtotal_MissingBasis(t *testing.T) {
	g := &HoldingGroup{
		Subtotals: map[ValuationBasis]*MoneyValues{
			BasisPortfolio: {Basis: BasisPortfolio, MarketValue: 500},
		},
	}

	assert.Equal(t, 500.0, g.Subtotal(BasisPortfolio).MarketValue)

	mv := g.Subtotal(BasisTrade)
	assert.NotNil(t, mv)
	assert.Equal(t, BasisTrade, mv.Basis)
	assert.Zero(t, mv.MarketValue)
}
