package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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
		`SELECT `+accountColumns+` FROM accounts WHERE number = ?`, number,
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
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
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

// SaveAll upserts every account inside one transaction.
func (r *AccountRepository) SaveAll(ctx context.Context, accounts ...*domain.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveAll: begin: %w", err)
	}
	defer tx.Rollback()

	for _, a := range accounts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (number) DO UPDATE SET
				balance = excluded.balance,
				negative_since = excluded.negative_since`,
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

func negativeSince(a *domain.Account) sql.NullInt64 {
	if a.NegativeSince == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMicros(*a.NegativeSince), Valid: true}
}

func scanAccount(s scanner) (*domain.Account, error) {
	var (
		a     domain.Account
		since sql.NullInt64
	)
	err := s.Scan(&a.Number, &a.Type, &a.Login, &a.PasswordHash, &a.Balance, &since)
	if err != nil {
		return nil, err
	}
	if since.Valid {
		t := fromMicros(since.Int64)
		a.NegativeSince = &t
	}
	return &a, nil
}
