package repository

import (
	"context"

	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/shopspring/decimal"
)

// Seed serves the built-in investor registry and holdings ledger. Every call
// returns fresh slices so callers can not alter the seed.
type Seed struct {
	investors []model.Investor
	holdings  []model.Holding
}

func NewSeed() *Seed {
	return &Seed{
		investors: []model.Investor{
			seedInvestor("Alice", 500000, 25000, 25000),
			seedInvestor("Bob", 300000, 10000, 10000),
			seedInvestor("Carol", 200000, 10000, 10000),
		},
		holdings: []model.Holding{
			seedHolding("SCBK", 1000, 150, 160),
			seedHolding("EQTY", 800, 175, 180),
			seedHolding("COOP", 700, 185, 190),
			seedHolding("BAT", 600, 210, 220),
			seedHolding("KEGN", 500, 250, 260),
			seedHolding("SBIC", 400, 300, 315),
		},
	}
}

func NewSeedFrom(investors []model.Investor, holdings []model.Holding) *Seed {
	return &Seed{
		investors: append([]model.Investor(nil), investors...),
		holdings:  append([]model.Holding(nil), holdings...),
	}
}

func (s *Seed) ListInvestors(ctx context.Context) ([]model.Investor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.Investor(nil), s.investors...), nil
}

func (s *Seed) ListHoldings(ctx context.Context) ([]model.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.Holding(nil), s.holdings...), nil
}

func seedInvestor(name string, capital, bankCash, mmf int64) model.Investor {
	return model.Investor{
		Name:            name,
		Capital:         decimal.NewFromInt(capital),
		BankCash:        decimal.NewFromInt(bankCash),
		MoneyMarketFund: decimal.NewFromInt(mmf),
	}
}

func seedHolding(ticker string, shares, avgBuyPrice, currentPrice int64) model.Holding {
	return model.Holding{
		Ticker:       ticker,
		Shares:       shares,
		AvgBuyPrice:  decimal.NewFromInt(avgBuyPrice),
		CurrentPrice: decimal.NewFromInt(currentPrice),
	}
}
