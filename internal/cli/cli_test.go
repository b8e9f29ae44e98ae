package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, serve ServeFunc, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_SOURCE", config.DataSourceStatic)
	t.Setenv("LOG_LEVEL", "error")

	if serve == nil {
		serve = func(context.Context, *config.Config) error { return nil }
	}

	root := NewRootCmd(serve)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestHoldingsCmd(t *testing.T) {
	out, err := execute(t, nil, "holdings", "--investor", "Alice", "--threshold", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "profit-lock trigger 5%")
	assert.Contains(t, out, "825,000")
	assert.Contains(t, out, "34,500")
	assert.Contains(t, out, "SBIC")
	assert.Contains(t, out, "SELL / LOCK PROFIT")
	assert.Contains(t, out, "10.00% of capital (policy 15%)")
}

func TestHoldingsCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown investor", args: []string{"holdings", "--investor", "Dave"}},
		{name: "threshold out of range", args: []string{"holdings", "--threshold", "51"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, nil, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSellCmd(t *testing.T) {
	out, err := execute(t, nil, "sell", "SBIC", "--percent", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Sold 200 shares (50%) of SBIC at 315 for KES 63,000")

	_, err = execute(t, nil, "sell", "SBIC", "--percent", "55")
	assert.Error(t, err)
}

func TestInvestorsCmd(t *testing.T) {
	out, err := execute(t, nil, "investors")
	require.NoError(t, err)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "500,000")
}

func TestReportCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, nil, "report", "--investor", "Bob", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "report saved to")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "finlords_portfolio_Bob_"))
	assert.Equal(t, ".xlsx", filepath.Ext(entries[0].Name()))
}

func TestPolicyCmd(t *testing.T) {
	out, err := execute(t, nil, "policy")
	require.NoError(t, err)
	assert.Contains(t, out, "• Minimum 15% held in cash/MMF")
}

func TestServeCmd(t *testing.T) {
	var got *config.Config
	_, err := execute(t, func(_ context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	}, "serve")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Portal.DefaultThreshold)
}

func TestRenderDashboard(t *testing.T) {
	d := model.Dashboard{
		Investor: model.Investor{Name: "Bob", BankCash: decimal.NewFromInt(10000), MoneyMarketFund: decimal.NewFromInt(10000)},
		Valuation: model.Valuation{
			Threshold: 20,
			Holdings: []model.AnnotatedHolding{{
				Holding:       model.Holding{Ticker: "KEGN", Shares: 500, AvgBuyPrice: decimal.NewFromInt(250), CurrentPrice: decimal.NewFromInt(260)},
				MarketValue:   decimal.NewFromInt(130000),
				ReturnPercent: decimal.NewFromInt(4),
				Signal:        model.SignalHold,
			}},
			PortfolioValue: decimal.NewFromInt(130000),
		},
		Liquidity: model.Liquidity{RatioPercent: decimal.RequireFromString("6.67"), MinPercent: decimal.NewFromInt(15)},
		Currency:  "KES",
	}

	out := renderDashboard(d)
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "130,000")
	assert.Contains(t, out, "4.00")
	assert.Contains(t, out, "HOLD")
	assert.Contains(t, out, "! Cash + MMF: 6.67% of capital (policy 15%)")
}
