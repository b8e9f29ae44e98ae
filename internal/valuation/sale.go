package valuation

import (
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/shopspring/decimal"
)

// SimulateSale previews selling sellPercent of the position identified by
// ticker. The ledger is read only: calling it twice gives the same result
// and the position keeps its shares.
func (e *Engine) SimulateSale(holdings []model.Holding, ticker string, sellPercent int) (model.SimulatedSale, error) {
	if !e.sellPercents.contains(sellPercent) {
		return model.SimulatedSale{}, service.InvalidArgument("sellPercent", sellPercent)
	}

	h, err := FindHolding(holdings, ticker)
	if err != nil {
		return model.SimulatedSale{}, err
	}

	if err = validateHolding(h); err != nil {
		return model.SimulatedSale{}, err
	}

	sharesSold := h.Shares * int64(sellPercent) / 100

	return model.SimulatedSale{
		Ticker:      h.Ticker,
		SellPercent: sellPercent,
		SharesSold:  sharesSold,
		Price:       h.CurrentPrice,
		Proceeds:    decimal.NewFromInt(sharesSold).Mul(h.CurrentPrice),
	}, nil
}

// FindHolding matches ticker exactly. Two records with the same ticker break
// the ledger's uniqueness and are reported as an invalid argument.
func FindHolding(holdings []model.Holding, ticker string) (model.Holding, error) {
	found := -1
	for i := range holdings {
		if holdings[i].Ticker != ticker {
			continue
		}
		if found >= 0 {
			return model.Holding{}, service.InvalidArgument("ticker", ticker)
		}
		found = i
	}

	if found < 0 {
		return model.Holding{}, service.NotFound("ticker", ticker)
	}

	return holdings[found], nil
}
