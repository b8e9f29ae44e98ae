package dbModel

import "github.com/shopspring/decimal"

type Holding struct {
	Ticker       string          `db:"ticker"`
	Shares       int64           `db:"shares"`
	AvgBuyPrice  decimal.Decimal `db:"avg_buy_price"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	Ordinal      int             `db:"ordinal"`
}
