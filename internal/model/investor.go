package model

import "github.com/shopspring/decimal"

type Investor struct {
	Name            string
	Capital         decimal.Decimal
	BankCash        decimal.Decimal
	MoneyMarketFund decimal.Decimal
}

// Liquidity is the share of capital parked in bank cash and money market fund.
type Liquidity struct {
	CashEquivalents decimal.Decimal
	RatioPercent    decimal.Decimal
	MinPercent      decimal.Decimal
	Compliant       bool
}
