// Package ledger is the banking engine: it owns the single logged-in session,
// enforces the account rules and writes every change through to the store and
// the statement log.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

// AccountStore is the durable account table. GetByNumber returns
// domain.ErrNotFound for unknown numbers and Create returns
// domain.ErrAccountExists for duplicates. SaveAll writes every account in a
// single unit where the backend supports it.
type AccountStore interface {
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Save(ctx context.Context, account *domain.Account) error
	SaveAll(ctx context.Context, accounts ...*domain.Account) error
}

type statementLog interface {
	Open(ctx context.Context, accountNumber string) error
	Record(ctx context.Context, tx domain.Transaction) error
	Entries(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithPasswordCost(cost int) Option {
	return func(e *Engine) { e.passwordCost = cost }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine is not safe for concurrent use. Callers serialise operations.
type Engine struct {
	accounts     AccountStore
	statements   statementLog
	policy       Policy
	now          func() time.Time
	passwordCost int
	log          *slog.Logger

	current *domain.Account
}

func NewEngine(accounts AccountStore, statements statementLog, policy Policy, opts ...Option) *Engine {
	e := &Engine{
		accounts:     accounts,
		statements:   statements,
		policy:       policy,
		now:          defaultClock,
		passwordCost: bcrypt.DefaultCost,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timestamps are kept at microsecond precision, the finest every store keeps.
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (e *Engine) CreateAccount(ctx context.Context, number, accountType, login, password string) (*domain.Account, error) {
	t, err := domain.ParseAccountType(accountType)
	if err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}
	if err := domain.ValidateCredentials(number, t, password); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), e.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("CreateAccount: hash password: %w", err)
	}

	account := &domain.Account{
		Number:       number,
		Type:         t,
		Login:        login,
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
	}
	if err := e.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", storeErr(err))
	}

	e.log.Info("account created", "account", number, "type", t)
	return account, nil
}

// Login reports whether the credentials match a stored account. A wrong
// password or unknown account is a plain false; only store failures error.
func (e *Engine) Login(ctx context.Context, number, password string) (bool, error) {
	account, err := e.accounts.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("Login: %w", storeErr(err))
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		e.log.Info("login rejected", "account", number)
		return false, nil
	}

	if err := e.statements.Open(ctx, number); err != nil {
		return false, fmt.Errorf("Login: %w", err)
	}
	e.current = account

	// The session stays open even if the interest write fails.
	if err := e.accrueInterest(ctx); err != nil {
		return true, fmt.Errorf("Login: %w", err)
	}

	e.log.Info("login succeeded", "account", number)
	return true, nil
}

func (e *Engine) Logout() {
	if e.current != nil {
		e.log.Info("logout", "account", e.current.Number)
	}
	e.current = nil
}

// Current returns a copy of the logged-in account.
func (e *Engine) Current() (domain.Account, bool) {
	if e.current == nil {
		return domain.Account{}, false
	}
	return *e.current, true
}

// Balance brings interest up to date before reporting the balance.
func (e *Engine) Balance(ctx context.Context) (decimal.Decimal, error) {
	if err := e.requireSession(); err != nil {
		return decimal.Zero, fmt.Errorf("Balance: %w", err)
	}
	if err := e.accrueInterest(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("Balance: %w", err)
	}
	return e.current.Balance, nil
}

func (e *Engine) Statement(ctx context.Context) ([]domain.Transaction, error) {
	if err := e.requireSession(); err != nil {
		return nil, fmt.Errorf("Statement: %w", err)
	}
	entries, err := e.statements.Entries(ctx, e.current.Number)
	if err != nil {
		return nil, fmt.Errorf("Statement: %w", err)
	}
	return entries, nil
}

func (e *Engine) Deposit(ctx context.Context, amount decimal.Decimal) error {
	if err := e.requireSession(); err != nil {
		return fmt.Errorf("Deposit: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("Deposit: %w", domain.ErrInvalidAmount)
	}
	if err := e.accrueInterest(ctx); err != nil {
		return fmt.Errorf("Deposit: %w", err)
	}

	now := e.now()
	acct := e.current
	acct.SetBalance(acct.Balance.Add(amount), now)

	tx := domain.NewTransaction(domain.TransactionTypeDeposit, amount, "deposit", acct.Number, nil, now)
	if err := e.commit(ctx, []domain.Transaction{tx}, acct); err != nil {
		return fmt.Errorf("Deposit: %w", err)
	}

	e.log.Info("deposit completed", "account", acct.Number, "amount", amount, "balance", acct.Balance)
	return nil
}

func (e *Engine) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	if err := e.requireSession(); err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("Withdraw: %w", domain.ErrInvalidAmount)
	}
	if err := e.accrueInterest(ctx); err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}

	acct := e.current
	if !acct.IsVIP() && acct.Balance.LessThan(amount) {
		return fmt.Errorf("Withdraw: %w", domain.ErrInsufficientFunds)
	}

	now := e.now()
	acct.SetBalance(acct.Balance.Sub(amount), now)

	tx := domain.NewTransaction(domain.TransactionTypeWithdrawal, amount.Neg(), "withdrawal", acct.Number, nil, now)
	if err := e.commit(ctx, []domain.Transaction{tx}, acct); err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}

	e.log.Info("withdrawal completed", "account", acct.Number, "amount", amount, "balance", acct.Balance)
	return nil
}

func (e *Engine) RequestManagerVisit(ctx context.Context) error {
	if err := e.requireSession(); err != nil {
		return fmt.Errorf("RequestManagerVisit: %w", err)
	}
	acct := e.current
	if !acct.IsVIP() {
		return fmt.Errorf("RequestManagerVisit: %w", domain.ErrNotVIP)
	}
	if err := e.accrueInterest(ctx); err != nil {
		return fmt.Errorf("RequestManagerVisit: %w", err)
	}

	now := e.now()
	fee := e.policy.ManagerVisitFee
	acct.SetBalance(acct.Balance.Sub(fee), now)

	tx := domain.NewTransaction(domain.TransactionTypeManagerVisit, fee.Neg(), "manager visit request", acct.Number, nil, now)
	if err := e.commit(ctx, []domain.Transaction{tx}, acct); err != nil {
		return fmt.Errorf("RequestManagerVisit: %w", err)
	}

	e.log.Info("manager visit requested", "account", acct.Number, "fee", fee, "balance", acct.Balance)
	return nil
}

func (e *Engine) requireSession() error {
	if e.current == nil {
		return domain.ErrNoSession
	}
	return nil
}

// accrueInterest applies overdraft interest to the session account and
// persists the new balance when anything was charged. No transaction is
// recorded for the charge.
func (e *Engine) accrueInterest(ctx context.Context) error {
	acct := e.current
	charged := acct.AccrueNegativeInterest(e.policy.NegativeInterestRate, e.now())
	if charged.IsZero() {
		return nil
	}
	if err := e.accounts.Save(ctx, acct); err != nil {
		return fmt.Errorf("accrueInterest: %w", storeErr(err))
	}
	e.log.Debug("negative balance interest charged", "account", acct.Number, "interest", charged, "balance", acct.Balance)
	return nil
}

// commit records txs in the statement log and then writes the accounts
// through. In-memory changes are not rolled back when either step fails.
func (e *Engine) commit(ctx context.Context, txs []domain.Transaction, accounts ...*domain.Account) error {
	for _, tx := range txs {
		if err := e.statements.Record(ctx, tx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	if err := e.accounts.SaveAll(ctx, accounts...); err != nil {
		return fmt.Errorf("commit: %w", storeErr(err))
	}
	return nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrPersistence):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
