// Package valuation derives market value, unrealized gain/loss, return and
// profit-lock signals from a holdings ledger, and previews partial sales.
// Every function here is pure: the ledger passed in is never modified.
package valuation

import (
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/shopspring/decimal"
)

const returnPrecision = 2

var hundred = decimal.NewFromInt(100)

// Bounds is an inclusive integer domain. Step > 1 also requires (v-Min)%Step == 0.
type Bounds struct {
	Min  int
	Max  int
	Step int
}

func (b Bounds) contains(v int) bool {
	if v < b.Min || v > b.Max {
		return false
	}
	if b.Step > 1 && (v-b.Min)%b.Step != 0 {
		return false
	}
	return true
}

var (
	DefaultThresholdBounds   = Bounds{Min: 5, Max: 50, Step: 1}
	DefaultSellPercentBounds = Bounds{Min: 10, Max: 100, Step: 10}
)

// Engine validates thresholds and sell percents against its bounds before
// delegating to the pure valuation functions.
type Engine struct {
	thresholds   Bounds
	sellPercents Bounds
}

func New(thresholds, sellPercents Bounds) *Engine {
	return &Engine{thresholds: thresholds, sellPercents: sellPercents}
}

// NewDefault uses thresholds [5,50] and sell percents [10,100] in steps of 10.
func NewDefault() *Engine {
	return New(DefaultThresholdBounds, DefaultSellPercentBounds)
}

// EvaluateHoldings annotates every holding in input order and sums the
// portfolio aggregates. It stops at the first invalid record.
func (e *Engine) EvaluateHoldings(holdings []model.Holding, thresholdPercent int) (model.Valuation, error) {
	if !e.thresholds.contains(thresholdPercent) {
		return model.Valuation{}, service.InvalidArgument("threshold", thresholdPercent)
	}

	threshold := decimal.NewFromInt(int64(thresholdPercent))
	res := model.Valuation{
		Threshold: thresholdPercent,
		Holdings:  make([]model.AnnotatedHolding, 0, len(holdings)),
	}

	for _, h := range holdings {
		annotated, err := Annotate(h, threshold)
		if err != nil {
			return model.Valuation{}, err
		}
		res.PortfolioValue = res.PortfolioValue.Add(annotated.MarketValue)
		res.UnrealizedPL = res.UnrealizedPL.Add(annotated.UnrealizedGainLoss)
		res.Holdings = append(res.Holdings, annotated)
	}

	return res, nil
}

// Annotate derives market value, gain/loss, return and signal for one holding.
func Annotate(h model.Holding, threshold decimal.Decimal) (model.AnnotatedHolding, error) {
	if err := validateHolding(h); err != nil {
		return model.AnnotatedHolding{}, err
	}

	returnPercent, err := ReturnPercent(h.AvgBuyPrice, h.CurrentPrice)
	if err != nil {
		return model.AnnotatedHolding{}, service.DivisionByZero("avgBuyPrice", h.Ticker)
	}

	shares := decimal.NewFromInt(h.Shares)

	return model.AnnotatedHolding{
		Holding:            h,
		MarketValue:        shares.Mul(h.CurrentPrice),
		UnrealizedGainLoss: h.CurrentPrice.Sub(h.AvgBuyPrice).Mul(shares),
		ReturnPercent:      returnPercent,
		Signal:             ClassifySignal(returnPercent, threshold),
	}, nil
}

// ReturnPercent is (current/avg - 1) * 100 rounded half away from zero to
// two decimal places.
func ReturnPercent(avgBuyPrice, currentPrice decimal.Decimal) (decimal.Decimal, error) {
	if avgBuyPrice.IsZero() {
		return decimal.Zero, service.ErrDivisionByZero
	}
	return currentPrice.Div(avgBuyPrice).Sub(decimal.NewFromInt(1)).Mul(hundred).Round(returnPrecision), nil
}

// ClassifySignal flags a position for profit locking once its return reaches
// the threshold (returnPercent >= threshold).
func ClassifySignal(returnPercent, threshold decimal.Decimal) model.Signal {
	if returnPercent.GreaterThanOrEqual(threshold) {
		return model.SignalLockProfit
	}
	return model.SignalHold
}

func validateHolding(h model.Holding) error {
	switch {
	case h.Shares < 0:
		return service.InvalidArgument("shares", h.Shares)
	case h.AvgBuyPrice.IsZero():
		return service.DivisionByZero("avgBuyPrice", h.Ticker)
	case h.AvgBuyPrice.IsNegative():
		return service.InvalidArgument("avgBuyPrice", h.AvgBuyPrice.String())
	case h.CurrentPrice.IsNegative():
		return service.InvalidArgument("currentPrice", h.CurrentPrice.String())
	}
	return nil
}
