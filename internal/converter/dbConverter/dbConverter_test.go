package dbConverter

import (
	"testing"

	"github.com/Lombado/finlords-investor-portal/internal/model/dbModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConvertHolding(t *testing.T) {
	row := dbModel.Holding{
		Ticker:       "KEGN",
		Shares:       500,
		AvgBuyPrice:  decimal.RequireFromString("250.0000"),
		CurrentPrice: decimal.RequireFromString("260.0000"),
		Ordinal:      5,
	}

	h := ConvertHolding(row)
	assert.Equal(t, "KEGN", h.Ticker)
	assert.Equal(t, int64(500), h.Shares)
	assert.True(t, h.AvgBuyPrice.Equal(decimal.NewFromInt(250)))
	assert.True(t, h.CurrentPrice.Equal(decimal.NewFromInt(260)))
}

func TestConvertInvestor(t *testing.T) {
	row := dbModel.Investor{
		Name:            "Bob",
		Capital:         decimal.NewFromInt(300000),
		BankCash:        decimal.NewFromInt(10000),
		MoneyMarketFund: decimal.NewFromInt(10000),
	}

	inv := ConvertInvestor(row)
	assert.Equal(t, "Bob", inv.Name)
	assert.True(t, inv.Capital.Equal(row.Capital))
	assert.True(t, inv.MoneyMarketFund.Equal(row.MoneyMarketFund))
}
