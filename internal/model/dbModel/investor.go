package dbModel

import "github.com/shopspring/decimal"

type Investor struct {
	Name            string          `db:"name"`
	Capital         decimal.Decimal `db:"capital"`
	BankCash        decimal.Decimal `db:"bank_cash"`
	MoneyMarketFund decimal.Decimal `db:"mmf_balance"`
}
