// Package testing provides testing utilities and fixtures for the folio project.
package testing

import "github.com/periphas/folio/internal/domain"

// USD returns the US dollar currency fixture
func USD() domain.Currency {
	return domain.Currency{Code: "USD", Name: "US Dollar", Symbol: "$"}
}

// NZD returns the New Zealand dollar currency fixture
func NZD() domain.Currency {
	return domain.Currency{Code: "NZD", Name: "New Zealand Dollar", Symbol: "$"}
}

// NewEquityPosition builds a priced equity-like position with identical
// values across all three valuation bases (single-currency portfolio).
func NewEquityPosition(code, category, sector, marketCode string, marketValue, irr, quantity float64) domain.Position {
	asset := domain.Asset{
		Code:     code,
		Name:     code,
		Category: category,
		Sector:   sector,
		Market:   domain.Market{Code: marketCode, Currency: USD()},
	}

	values := make(map[domain.ValuationBasis]*domain.MoneyValues, len(domain.Bases))
	for _, basis := range domain.Bases {
		values[basis] = &domain.MoneyValues{
			Currency:    USD(),
			Basis:       basis,
			MarketValue: marketValue,
			IRR:         irr,
		}
	}

	return domain.Position{
		Asset:       asset,
		Quantity:    domain.QuantityValues{Total: quantity, Purchased: quantity},
		MoneyValues: values,
	}
}

// NewCashPosition builds a cash balance position for the given currency code
func NewCashPosition(currencyCode string, balance float64) domain.Position {
	asset := domain.Asset{
		Code:     currencyCode,
		Name:     currencyCode + " Balance",
		Category: "CASH",
		Market:   domain.Market{Code: "CASH", Currency: USD()},
	}

	values := make(map[domain.ValuationBasis]*domain.MoneyValues, len(domain.Bases))
	for _, basis := range domain.Bases {
		values[basis] = &domain.MoneyValues{
			Currency:    USD(),
			Basis:       basis,
			MarketValue: balance,
			Cash:        balance,
		}
	}

	return domain.Position{
		Asset:       asset,
		Quantity:    domain.QuantityValues{Total: balance},
		MoneyValues: values,
	}
}

// NewHoldingContract returns the canonical single-currency test contract:
// two equities, two ETFs (one fully sold), and a USD cash balance.
func NewHoldingContract() domain.HoldingContract {
	positions := map[string]domain.Position{
		"BKNG:NASDAQ": NewEquityPosition("BKNG", "Equity", "Consumer Cyclical", "NASDAQ", 3780.03, 0.12, 2),
		"MCD:NYSE":    NewEquityPosition("MCD", "Equity", "Consumer Cyclical", "NYSE", 1071.8, 0.08, 4),
		"QQQ:NASDAQ":  NewEquityPosition("QQQ", "ETF", "Technology", "NASDAQ", 441.02, 0.10, 1),
		"SMH:NASDAQ":  NewEquityPosition("SMH", "ETF", "Technology", "NASDAQ", 0, 0, 0),
		"USD:CASH":    NewCashPosition("USD", 5741.0),
	}

	totals := make(map[domain.ValuationBasis]domain.Total, len(domain.Bases))
	for _, basis := range domain.Bases {
		totals[basis] = domain.Total{
			Currency:    USD(),
			MarketValue: 11033.85,
			Cash:        5741.0,
		}
	}

	return domain.HoldingContract{
		Portfolio: domain.Portfolio{
			Code:     "TEST",
			Name:     "Test Portfolio",
			Currency: USD(),
			Base:     USD(),
		},
		Positions: positions,
		Totals:    totals,
	}
}
