package model

import "github.com/shopspring/decimal"

type Signal string

const (
	SignalHold       Signal = "HOLD"
	SignalLockProfit Signal = "SELL / LOCK PROFIT"
)

// Holding is one equity position of the ledger. Derived values are never
// stored here, see AnnotatedHolding.
type Holding struct {
	Ticker       string
	Shares       int64
	AvgBuyPrice  decimal.Decimal
	CurrentPrice decimal.Decimal
}

type AnnotatedHolding struct {
	Holding
	MarketValue        decimal.Decimal
	UnrealizedGainLoss decimal.Decimal
	ReturnPercent      decimal.Decimal
	Signal             Signal
}

type Valuation struct {
	Threshold      int
	Holdings       []AnnotatedHolding
	PortfolioValue decimal.Decimal
	UnrealizedPL   decimal.Decimal
}
