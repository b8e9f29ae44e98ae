package dbConverter

import (
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/model/dbModel"
)

func ConvertInvestor(dbInvestor dbModel.Investor) model.Investor {
	return model.Investor{
		Name:            dbInvestor.Name,
		Capital:         dbInvestor.Capital,
		BankCash:        dbInvestor.BankCash,
		MoneyMarketFund: dbInvestor.MoneyMarketFund,
	}
}

func ConvertHolding(dbHolding dbModel.Holding) model.Holding {
	return model.Holding{
		Ticker:       dbHolding.Ticker,
		Shares:       dbHolding.Shares,
		AvgBuyPrice:  dbHolding.AvgBuyPrice,
		CurrentPrice: dbHolding.CurrentPrice,
	}
}
