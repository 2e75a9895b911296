// Package app wires configuration, the persistence store, the statement log
// and the ledger engine together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/perrijuan/sistema-bancario/internal/config"
	"github.com/perrijuan/sistema-bancario/internal/domain"
	"github.com/perrijuan/sistema-bancario/internal/repository/memory"
	"github.com/perrijuan/sistema-bancario/internal/repository/postgres"
	"github.com/perrijuan/sistema-bancario/internal/repository/sqlite"
	"github.com/perrijuan/sistema-bancario/internal/service/ledger"
	"github.com/perrijuan/sistema-bancario/internal/statement"
)

// Store is everything the engine and the statement log need from a backend.
type Store interface {
	ledger.AccountStore
	statement.TransactionStore
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	cfg  *config.Config
	log  *slog.Logger
	open func(ctx context.Context) (Store, error)

	once    sync.Once
	store   Store
	openErr error
}

func New(cfg *config.Config, log *slog.Logger) *App {
	a := &App{cfg: cfg, log: log}
	a.open = a.openConfigured
	return a
}

// Store opens the configured backend on first use. Every caller, concurrent
// or not, gets the same store and the same error.
func (a *App) Store(ctx context.Context) (Store, error) {
	a.once.Do(func() {
		a.store, a.openErr = a.open(ctx)
		if a.openErr != nil {
			a.openErr = fmt.Errorf("Store: %w: %w", domain.ErrPersistence, a.openErr)
			return
		}
		a.log.Info("store opened", "driver", a.cfg.StoreDriver)
	})
	return a.store, a.openErr
}

// Engine builds a fresh engine over the shared store. Each engine carries its
// own session and statement cache.
func (a *App) Engine(ctx context.Context) (*ledger.Engine, error) {
	store, err := a.Store(ctx)
	if err != nil {
		return nil, fmt.Errorf("Engine: %w", err)
	}
	return ledger.NewEngine(store, statement.NewLog(store), a.cfg.Policy(),
		ledger.WithPasswordCost(a.cfg.BcryptCost),
		ledger.WithLogger(a.log),
	), nil
}

// Ping opens the store if needed and then pings it on every call.
func (a *App) Ping(ctx context.Context) error {
	store, err := a.Store(ctx)
	if err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("Ping: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Driver names the configured backend.
func (a *App) Driver() string {
	return a.cfg.StoreDriver
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) openConfigured(ctx context.Context) (Store, error) {
	switch a.cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, a.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("openConfigured: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, a.cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:     a.cfg.DBMaxOpenConns,
			MaxIdleConns:     a.cfg.DBMaxIdleConns,
			ConnMaxLifetimeS: a.cfg.DBConnMaxLifetimeS,
			ConnMaxIdleTimeS: a.cfg.DBConnMaxIdleTimeS,
		})
		if err != nil {
			return nil, fmt.Errorf("openConfigured: %w", err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("openConfigured: unknown driver %q", a.cfg.StoreDriver)
}

type defaultAccount struct {
	number, accountType, login, password string
}

var defaultAccounts = []defaultAccount{
	{"12345", "NORMAL", "usuario1", "1234"},
	{"67890", "VIP", "usuario2", "5678"},
}

// SeedDefaultAccounts creates the two demo accounts, skipping any that
// already exist, and returns the numbers it created.
func SeedDefaultAccounts(ctx context.Context, e *ledger.Engine) ([]string, error) {
	var created []string
	for _, d := range defaultAccounts {
		_, err := e.CreateAccount(ctx, d.number, d.accountType, d.login, d.password)
		if errors.Is(err, domain.ErrAccountExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("SeedDefaultAccounts: %w", err)
		}
		created = append(created, d.number)
	}
	return created, nil
}
