package valuation

import (
	"testing"

	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateSale(t *testing.T) {
	engine := NewDefault()

	tests := []struct {
		name         string
		ticker       string
		sellPercent  int
		wantShares   int64
		wantProceeds string
	}{
		{name: "half of SBIC", ticker: "SBIC", sellPercent: 50, wantShares: 200, wantProceeds: "63000"},
		{name: "all of SCBK", ticker: "SCBK", sellPercent: 100, wantShares: 1000, wantProceeds: "160000"},
		{name: "ten percent of KEGN", ticker: "KEGN", sellPercent: 10, wantShares: 50, wantProceeds: "13000"},
		{name: "thirty percent of COOP", ticker: "COOP", sellPercent: 30, wantShares: 210, wantProceeds: "39900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale, err := engine.SimulateSale(ledger(), tt.ticker, tt.sellPercent)
			require.NoError(t, err)
			assert.Equal(t, tt.ticker, sale.Ticker)
			assert.Equal(t, tt.sellPercent, sale.SellPercent)
			assert.Equal(t, tt.wantShares, sale.SharesSold)
			assertDecimal(t, tt.wantProceeds, sale.Proceeds)
		})
	}
}

func TestSimulateSale_Truncates(t *testing.T) {
	holdings := []model.Holding{holding("ODD", 7, "10", "12.5")}

	sale, err := NewDefault().SimulateSale(holdings, "ODD", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sale.SharesSold)
	assertDecimal(t, "37.5", sale.Proceeds)

	sale, err = NewDefault().SimulateSale(holdings, "ODD", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sale.SharesSold)
	assert.True(t, sale.Proceeds.IsZero())
}

func TestSimulateSale_FullPositionHasNoRoundingLoss(t *testing.T) {
	engine := NewDefault()
	for _, h := range append(ledger(), holding("ODD", 7, "1", "1"), holding("ONE", 1, "1", "1")) {
		sale, err := engine.SimulateSale([]model.Holding{h}, h.Ticker, 100)
		require.NoError(t, err)
		assert.Equal(t, h.Shares, sale.SharesSold, h.Ticker)
	}
}

func TestSimulateSale_IdempotentAndReadOnly(t *testing.T) {
	engine := NewDefault()
	holdings := ledger()

	first, err := engine.SimulateSale(holdings, "SBIC", 50)
	require.NoError(t, err)
	second, err := engine.SimulateSale(holdings, "SBIC", 50)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(400), holdings[5].Shares)
	assert.Equal(t, ledger(), holdings)
}

func TestSimulateSale_Errors(t *testing.T) {
	engine := NewDefault()

	tests := []struct {
		name        string
		holdings    []model.Holding
		ticker      string
		sellPercent int
		wantKind    error
	}{
		{name: "unknown ticker", holdings: ledger(), ticker: "NSE", sellPercent: 50, wantKind: service.ErrNotFound},
		{name: "ticker is case sensitive", holdings: ledger(), ticker: "sbic", sellPercent: 50, wantKind: service.ErrNotFound},
		{name: "empty ledger", holdings: nil, ticker: "SBIC", sellPercent: 50, wantKind: service.ErrNotFound},
		{name: "percent below domain", holdings: ledger(), ticker: "SBIC", sellPercent: 0, wantKind: service.ErrInvalidArgument},
		{name: "percent above domain", holdings: ledger(), ticker: "SBIC", sellPercent: 110, wantKind: service.ErrInvalidArgument},
		{name: "percent off step", holdings: ledger(), ticker: "SBIC", sellPercent: 55, wantKind: service.ErrInvalidArgument},
		{
			name:        "duplicate ticker",
			holdings:    append(ledger(), holding("SBIC", 1, "1", "1")),
			ticker:      "SBIC",
			sellPercent: 50,
			wantKind:    service.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.SimulateSale(tt.holdings, tt.ticker, tt.sellPercent)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestInvestorLiquidity(t *testing.T) {
	minPercent := decimal.NewFromInt(15)

	tests := []struct {
		name          string
		investor      model.Investor
		wantRatio     string
		wantCompliant bool
	}{
		{
			name:          "Alice",
			investor:      model.Investor{Name: "Alice", Capital: decimal.NewFromInt(500000), BankCash: decimal.NewFromInt(25000), MoneyMarketFund: decimal.NewFromInt(25000)},
			wantRatio:     "10",
			wantCompliant: false,
		},
		{
			name:          "Carol",
			investor:      model.Investor{Name: "Carol", Capital: decimal.NewFromInt(200000), BankCash: decimal.NewFromInt(10000), MoneyMarketFund: decimal.NewFromInt(10000)},
			wantRatio:     "10",
			wantCompliant: false,
		},
		{
			name:          "exactly on the policy line",
			investor:      model.Investor{Name: "Dan", Capital: decimal.NewFromInt(100000), BankCash: decimal.NewFromInt(10000), MoneyMarketFund: decimal.NewFromInt(5000)},
			wantRatio:     "15",
			wantCompliant: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			liq, err := InvestorLiquidity(tt.investor, minPercent)
			require.NoError(t, err)
			assertDecimal(t, tt.wantRatio, liq.RatioPercent)
			assert.Equal(t, tt.wantCompliant, liq.Compliant)
		})
	}

	_, err := InvestorLiquidity(model.Investor{Name: "Empty"}, minPercent)
	assert.ErrorIs(t, err, service.ErrDivisionByZero)
}
