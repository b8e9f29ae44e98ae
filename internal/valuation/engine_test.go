package valuation

import (
	"testing"

	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holding(ticker string, shares int64, avg, cur string) model.Holding {
	return model.Holding{
		Ticker:       ticker,
		Shares:       shares,
		AvgBuyPrice:  decimal.RequireFromString(avg),
		CurrentPrice: decimal.RequireFromString(cur),
	}
}

func ledger() []model.Holding {
	return []model.Holding{
		holding("SCBK", 1000, "150", "160"),
		holding("EQTY", 800, "175", "180"),
		holding("COOP", 700, "185", "190"),
		holding("BAT", 600, "210", "220"),
		holding("KEGN", 500, "250", "260"),
		holding("SBIC", 400, "300", "315"),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestEvaluateHoldings_Scenarios(t *testing.T) {
	engine := NewDefault()

	t.Run("SCBK below threshold 20", func(t *testing.T) {
		res, err := engine.EvaluateHoldings([]model.Holding{holding("SCBK", 1000, "150", "160")}, 20)
		require.NoError(t, err)
		require.Len(t, res.Holdings, 1)

		h := res.Holdings[0]
		assertDecimal(t, "160000", h.MarketValue)
		assertDecimal(t, "10000", h.UnrealizedGainLoss)
		assertDecimal(t, "6.67", h.ReturnPercent)
		assert.Equal(t, model.SignalHold, h.Signal)
	})

	t.Run("KEGN at threshold 5 holds", func(t *testing.T) {
		res, err := engine.EvaluateHoldings([]model.Holding{holding("KEGN", 500, "250", "260")}, 5)
		require.NoError(t, err)
		assertDecimal(t, "4", res.Holdings[0].ReturnPercent)
		assert.Equal(t, model.SignalHold, res.Holdings[0].Signal)
	})

	t.Run("KEGN at threshold 4 locks profit", func(t *testing.T) {
		wide := New(Bounds{Min: 1, Max: 100, Step: 1}, DefaultSellPercentBounds)
		res, err := wide.EvaluateHoldings([]model.Holding{holding("KEGN", 500, "250", "260")}, 4)
		require.NoError(t, err)
		assert.Equal(t, model.SignalLockProfit, res.Holdings[0].Signal)

		assert.Equal(t, model.SignalLockProfit, ClassifySignal(decimal.RequireFromString("4.00"), decimal.NewFromInt(4)))
	})

	t.Run("zero avg buy price fails fast", func(t *testing.T) {
		holdings := ledger()
		holdings[2].AvgBuyPrice = decimal.Zero

		res, err := engine.EvaluateHoldings(holdings, 20)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrDivisionByZero)
		assert.Empty(t, res.Holdings)

		var svcErr *service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "COOP", svcErr.Value)
	})
}

func TestEvaluateHoldings_Aggregates(t *testing.T) {
	engine := NewDefault()
	holdings := ledger()

	res, err := engine.EvaluateHoldings(holdings, 20)
	require.NoError(t, err)
	require.Len(t, res.Holdings, len(holdings))

	sumValue, sumPL := decimal.Zero, decimal.Zero
	for i, h := range res.Holdings {
		assert.Equal(t, holdings[i].Ticker, h.Ticker, "order must be preserved")
		sumValue = sumValue.Add(h.MarketValue)
		sumPL = sumPL.Add(h.UnrealizedGainLoss)
	}
	assert.True(t, sumValue.Equal(res.PortfolioValue))
	assert.True(t, sumPL.Equal(res.UnrealizedPL))
	assertDecimal(t, "825000", res.PortfolioValue)
	assertDecimal(t, "34500", res.UnrealizedPL)

	reversed := make([]model.Holding, 0, len(holdings))
	for i := len(holdings) - 1; i >= 0; i-- {
		reversed = append(reversed, holdings[i])
	}
	resReversed, err := engine.EvaluateHoldings(reversed, 20)
	require.NoError(t, err)
	assert.True(t, res.PortfolioValue.Equal(resReversed.PortfolioValue))
	assert.True(t, res.UnrealizedPL.Equal(resReversed.UnrealizedPL))
}

func TestEvaluateHoldings_ZeroShares(t *testing.T) {
	engine := NewDefault()

	for _, prices := range [][2]string{{"150", "160"}, {"10", "1"}, {"0.5", "0"}} {
		res, err := engine.EvaluateHoldings([]model.Holding{holding("ZERO", 0, prices[0], prices[1])}, 10)
		require.NoError(t, err)
		h := res.Holdings[0]
		assert.True(t, h.MarketValue.IsZero())
		assert.True(t, h.UnrealizedGainLoss.IsZero())
	}

	res, err := engine.EvaluateHoldings([]model.Holding{holding("ZERO", 0, "150", "160")}, 10)
	require.NoError(t, err)
	assertDecimal(t, "6.67", res.Holdings[0].ReturnPercent)
}

func TestEvaluateHoldings_ThresholdAboveEveryReturn(t *testing.T) {
	res, err := NewDefault().EvaluateHoldings(ledger(), 50)
	require.NoError(t, err)
	for _, h := range res.Holdings {
		assert.Equal(t, model.SignalHold, h.Signal, h.Ticker)
	}
}

func TestEvaluateHoldings_SignalIsInclusive(t *testing.T) {
	// 5% return exactly on the threshold
	res, err := NewDefault().EvaluateHoldings([]model.Holding{holding("SBIC", 400, "300", "315")}, 5)
	require.NoError(t, err)
	assertDecimal(t, "5", res.Holdings[0].ReturnPercent)
	assert.Equal(t, model.SignalLockProfit, res.Holdings[0].Signal)
}

func TestEvaluateHoldings_InvalidInput(t *testing.T) {
	engine := NewDefault()

	tests := []struct {
		name      string
		holdings  []model.Holding
		threshold int
		wantKind  error
	}{
		{name: "threshold below domain", holdings: ledger(), threshold: 4, wantKind: service.ErrInvalidArgument},
		{name: "threshold above domain", holdings: ledger(), threshold: 51, wantKind: service.ErrInvalidArgument},
		{name: "negative shares", holdings: []model.Holding{holding("X", -1, "1", "1")}, threshold: 20, wantKind: service.ErrInvalidArgument},
		{name: "negative avg price", holdings: []model.Holding{holding("X", 1, "-1", "1")}, threshold: 20, wantKind: service.ErrInvalidArgument},
		{name: "negative current price", holdings: []model.Holding{holding("X", 1, "1", "-1")}, threshold: 20, wantKind: service.ErrInvalidArgument},
		{name: "zero avg price", holdings: []model.Holding{holding("X", 1, "0", "1")}, threshold: 20, wantKind: service.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.EvaluateHoldings(tt.holdings, tt.threshold)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestEvaluateHoldings_EmptyLedger(t *testing.T) {
	res, err := NewDefault().EvaluateHoldings(nil, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Holdings)
	assert.True(t, res.PortfolioValue.IsZero())
	assert.True(t, res.UnrealizedPL.IsZero())
}

func TestReturnPercent_MonotonicInCurrentPrice(t *testing.T) {
	avg := decimal.NewFromInt(150)
	prev, err := ReturnPercent(avg, decimal.Zero)
	require.NoError(t, err)

	for price := int64(1); price <= 400; price += 3 {
		cur, err := ReturnPercent(avg, decimal.NewFromInt(price))
		require.NoError(t, err)
		assert.True(t, cur.GreaterThanOrEqual(prev), "price %d: %s < %s", price, cur, prev)
		prev = cur
	}
}

func TestReturnPercent_Rounding(t *testing.T) {
	tests := []struct {
		avg, cur, want string
	}{
		{avg: "150", cur: "160", want: "6.67"},
		{avg: "175", cur: "180", want: "2.86"},
		{avg: "185", cur: "190", want: "2.7"},
		{avg: "210", cur: "220", want: "4.76"},
		{avg: "200", cur: "100", want: "-50"},
		{avg: "8", cur: "8.0001", want: "0"},
		{avg: "1000", cur: "1000.05", want: "0.01"}, // half rounds up
	}

	for _, tt := range tests {
		t.Run(tt.avg+"->"+tt.cur, func(t *testing.T) {
			got, err := ReturnPercent(decimal.RequireFromString(tt.avg), decimal.RequireFromString(tt.cur))
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestReturnPercent_ZeroAvg(t *testing.T) {
	_, err := ReturnPercent(decimal.Zero, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, service.ErrDivisionByZero)
}

func TestEvaluateHoldings_DoesNotMutateInput(t *testing.T) {
	holdings := ledger()
	before := ledger()

	_, err := NewDefault().EvaluateHoldings(holdings, 5)
	require.NoError(t, err)
	_, err = NewDefault().EvaluateHoldings(holdings, 50)
	require.NoError(t, err)

	assert.Equal(t, before, holdings)
}
