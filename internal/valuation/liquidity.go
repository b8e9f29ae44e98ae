package valuation

import (
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/shopspring/decimal"
)

// InvestorLiquidity checks the cash policy: bank cash plus money market fund
// must be at least minPercent of the investor's capital.
func InvestorLiquidity(investor model.Investor, minPercent decimal.Decimal) (model.Liquidity, error) {
	if investor.Capital.IsZero() {
		return model.Liquidity{}, service.DivisionByZero("capital", investor.Name)
	}
	if investor.Capital.IsNegative() {
		return model.Liquidity{}, service.InvalidArgument("capital", investor.Capital.String())
	}

	cash := investor.BankCash.Add(investor.MoneyMarketFund)
	ratio := cash.Div(investor.Capital).Mul(hundred).Round(returnPrecision)

	return model.Liquidity{
		CashEquivalents: cash,
		RatioPercent:    ratio,
		MinPercent:      minPercent,
		Compliant:       ratio.GreaterThanOrEqual(minPercent),
	}, nil
}
