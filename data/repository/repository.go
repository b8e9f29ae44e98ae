package repository

import (
	"context"
	"fmt"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/data"
	"github.com/Lombado/finlords-investor-portal/internal/model"
)

type Reader interface {
	ListInvestors(ctx context.Context) ([]model.Investor, error)
	ListHoldings(ctx context.Context) ([]model.Holding, error)
}

// Open picks the reference data source from DATA_SOURCE. The returned close
// func releases the database connection, if any.
func Open(cfg *config.Config) (Reader, func(), error) {
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		db, err := data.NewPostgresClient(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgres(db), func() { _ = db.Close() }, nil
	case config.DataSourceStatic:
		return NewSeed(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}
