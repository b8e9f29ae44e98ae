package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DataSourceStatic   = "static"
	DataSourcePostgres = "postgres"
)

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	DataSource        string        `env:"DATA_SOURCE" envDefault:"static"`
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"24h"`
	Portal            Portal
	Postgres          Postgres
	Telegram          Telegram
	Redis             Redis
	Jobs              Jobs
	GoogleDrive       GoogleDrive
}

type Portal struct {
	Currency            string   `env:"PORTAL_CURRENCY" envDefault:"KES"`
	ThresholdMin        int      `env:"PORTAL_THRESHOLD_MIN" envDefault:"5"`
	ThresholdMax        int      `env:"PORTAL_THRESHOLD_MAX" envDefault:"50"`
	DefaultThreshold    int      `env:"PORTAL_THRESHOLD_DEFAULT" envDefault:"20"`
	SellPercentMin      int      `env:"PORTAL_SELL_PERCENT_MIN" envDefault:"10"`
	SellPercentMax      int      `env:"PORTAL_SELL_PERCENT_MAX" envDefault:"100"`
	SellPercentStep     int      `env:"PORTAL_SELL_PERCENT_STEP" envDefault:"10"`
	DefaultSellPercent  int      `env:"PORTAL_SELL_PERCENT_DEFAULT" envDefault:"50"`
	LiquidityMinPercent int      `env:"PORTAL_LIQUIDITY_MIN_PERCENT" envDefault:"15"`
	ReportFileName      string   `env:"PORTAL_REPORT_FILE_NAME" envDefault:"finlords_portfolio"`
	PolicyPoints        []string `env:"PORTAL_POLICY_POINTS" envSeparator:";" envDefault:"Minimum 15% held in cash/MMF;Short-term profits parked in bank;Reinvested during rebalancing cycles"`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"finlords"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"data/migrations"`
}

type Telegram struct {
	Token            string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout       time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	FileLimitInBytes int           `env:"TELEGRAM_FILE_LIMIT_IN_BYTES" envDefault:"52428800"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Jobs struct {
	ReloadReferenceDataInterval time.Duration `env:"RELOAD_REFERENCE_DATA_JOB_INTERVAL" envDefault:"5m"`
	DeleteOldReportsCrontab     string        `env:"DELETE_OLD_REPORTS_JOB_CRONTAB" envDefault:"0 0 * * * *"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	p := c.Portal

	switch {
	case c.DataSource != DataSourceStatic && c.DataSource != DataSourcePostgres:
		return fmt.Errorf("invalid DATA_SOURCE %q", c.DataSource)
	case p.ThresholdMin > p.ThresholdMax:
		return fmt.Errorf("threshold bounds [%d, %d] are inverted", p.ThresholdMin, p.ThresholdMax)
	case p.DefaultThreshold < p.ThresholdMin || p.DefaultThreshold > p.ThresholdMax:
		return fmt.Errorf("default threshold %d is outside [%d, %d]", p.DefaultThreshold, p.ThresholdMin, p.ThresholdMax)
	case p.SellPercentStep <= 0:
		return fmt.Errorf("sell percent step must be positive, got %d", p.SellPercentStep)
	case p.SellPercentMin <= 0 || p.SellPercentMax > 100 || p.SellPercentMin > p.SellPercentMax:
		return fmt.Errorf("sell percent bounds [%d, %d] must lie within (0, 100]", p.SellPercentMin, p.SellPercentMax)
	case p.DefaultSellPercent < p.SellPercentMin || p.DefaultSellPercent > p.SellPercentMax:
		return fmt.Errorf("default sell percent %d is outside [%d, %d]", p.DefaultSellPercent, p.SellPercentMin, p.SellPercentMax)
	case (p.DefaultSellPercent-p.SellPercentMin)%p.SellPercentStep != 0:
		return fmt.Errorf("default sell percent %d is not a multiple of step %d from %d", p.DefaultSellPercent, p.SellPercentStep, p.SellPercentMin)
	case p.LiquidityMinPercent < 0 || p.LiquidityMinPercent > 100:
		return fmt.Errorf("liquidity minimum %d%% is outside [0, 100]", p.LiquidityMinPercent)
	}

	return nil
}

// ThresholdOptions lists the thresholds offered as buttons, every 5% within bounds.
func (p Portal) ThresholdOptions() []int {
	res := make([]int, 0)
	for v := p.ThresholdMin; v <= p.ThresholdMax; v++ {
		if v%5 == 0 || v == p.ThresholdMin {
			res = append(res, v)
		}
	}
	return res
}

func (p Portal) SellPercentOptions() []int {
	res := make([]int, 0)
	for v := p.SellPercentMin; v <= p.SellPercentMax; v += p.SellPercentStep {
		res = append(res, v)
	}
	return res
}
