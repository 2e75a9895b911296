package config

import (
	"errors"
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/perrijuan/sistema-bancario/internal/service/ledger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"bank_data/bank.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"10"`

	// SeedDefaultAccounts makes the API create the two demo accounts on start.
	SeedDefaultAccounts bool `env:"SEED_DEFAULT_ACCOUNTS" envDefault:"false"`

	NormalTransferFee    decimal.Decimal `env:"NORMAL_TRANSFER_FEE" envDefault:"8.0"`
	VIPTransferFeeRate   decimal.Decimal `env:"VIP_TRANSFER_FEE_RATE" envDefault:"0.008"`
	NormalTransferLimit  decimal.Decimal `env:"NORMAL_TRANSFER_LIMIT" envDefault:"1000"`
	ManagerVisitFee      decimal.Decimal `env:"MANAGER_VISIT_FEE" envDefault:"50"`
	NegativeInterestRate decimal.Decimal `env:"NEGATIVE_INTEREST_RATE" envDefault:"0.001"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

func (c *Config) Policy() ledger.Policy {
	return ledger.Policy{
		NormalTransferFee:    c.NormalTransferFee,
		VIPTransferFeeRate:   c.VIPTransferFeeRate,
		NormalTransferLimit:  c.NormalTransferLimit,
		ManagerVisitFee:      c.ManagerVisitFee,
		NegativeInterestRate: c.NegativeInterestRate,
	}
}
