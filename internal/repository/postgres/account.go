package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

const accountColumns = `number, account_type, login, password_hash, balance, negative_since`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE number = $1`, number,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNumber: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByNumber: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		account.Number, account.Type, account.Login, account.PasswordHash,
		account.Balance, negativeSince(account),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrAccountExists)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if err := r.SaveAll(ctx, account); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// SaveAll upserts every account inside one transaction, locking rows in
// account-number order.
func (r *AccountRepository) SaveAll(ctx context.Context, accounts ...*domain.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveAll: begin: %w", err)
	}
	defer tx.Rollback()

	for _, a := range sortedByNumber(accounts) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (number) DO UPDATE SET
				balance = EXCLUDED.balance,
				negative_since = EXCLUDED.negative_since`,
			a.Number, a.Type, a.Login, a.PasswordHash, a.Balance, negativeSince(a),
		)
		if err != nil {
			return fmt.Errorf("SaveAll: %s: %w", a.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SaveAll: commit: %w", err)
	}
	return nil
}

func sortedByNumber(accounts []*domain.Account) []*domain.Account {
	out := slices.Clone(accounts)
	slices.SortFunc(out, func(a, b *domain.Account) int { return strings.Compare(a.Number, b.Number) })
	return out
}

func negativeSince(a *domain.Account) sql.NullTime {
	if a.NegativeSince == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: a.NegativeSince.UTC(), Valid: true}
}

func scanAccount(s scanner) (*domain.Account, error) {
	var (
		a     domain.Account
		since sql.NullTime
	)
	err := s.Scan(&a.Number, &a.Type, &a.Login, &a.PasswordHash, &a.Balance, &since)
	if err != nil {
		return nil, err
	}
	if since.Valid {
		t := since.Time.UTC()
		a.NegativeSince = &t
	}
	return &a, nil
}
