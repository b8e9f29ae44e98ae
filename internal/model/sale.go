package model

import "github.com/shopspring/decimal"

// SimulatedSale is a preview of selling part of a position. It is never
// applied to the ledger.
type SimulatedSale struct {
	Ticker      string
	SellPercent int
	SharesSold  int64
	Price       decimal.Decimal
	Proceeds    decimal.Decimal
}
