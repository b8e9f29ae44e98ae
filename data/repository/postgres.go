package repository

import (
	"context"
	"log/slog"

	"github.com/Lombado/finlords-investor-portal/internal/converter/dbConverter"
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/model/dbModel"
	"github.com/Lombado/finlords-investor-portal/utils"
	"github.com/jmoiron/sqlx"
)

// Postgres reads the investor registry and the holdings ledger. It never
// writes: the tables are filled by migrations only.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (r *Postgres) ListInvestors(ctx context.Context) (investors []model.Investor, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT name, capital, bank_cash, mmf_balance
		FROM investors
		ORDER BY name
		`

	slog.Debug("ListInvestors start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("ListInvestors failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("ListInvestors completed", slog.String("rqID", rqID), slog.Int("count", len(investors)))
		}
	}()

	var rows []dbModel.Investor
	err = r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	investors = make([]model.Investor, 0, len(rows))
	for _, row := range rows {
		investors = append(investors, dbConverter.ConvertInvestor(row))
	}

	return investors, nil
}

func (r *Postgres) ListHoldings(ctx context.Context) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT ticker, shares, avg_buy_price, current_price, ordinal
		FROM holdings
		ORDER BY ordinal, ticker
		`

	slog.Debug("ListHoldings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("ListHoldings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("ListHoldings completed", slog.String("rqID", rqID), slog.Int("count", len(holdings)))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var holding dbModel.Holding
		err = rows.StructScan(&holding)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertHolding(holding))
	}

	return holdings, rows.Err()
}
