package model

import "github.com/shopspring/decimal"

// ReferenceData is one immutable snapshot of the investor registry and the
// holdings ledger. A reload replaces the whole snapshot.
type ReferenceData struct {
	Investors []Investor
	Holdings  []Holding
}

type Dashboard struct {
	Investor     Investor
	Valuation    Valuation
	Liquidity    Liquidity
	Currency     string
	PolicyPoints []string
}

func (d Dashboard) PortfolioValue() decimal.Decimal {
	return d.Valuation.PortfolioValue
}

func (d Dashboard) UnrealizedPL() decimal.Decimal {
	return d.Valuation.UnrealizedPL
}

type ReportFile struct {
	FileName string
	Content  []byte
	Link     string // set when the file was uploaded instead of sent inline
}
