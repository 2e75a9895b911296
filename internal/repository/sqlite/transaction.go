package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

const transactionColumns = `id, occurred_at, tx_type, amount, description, source_account, dest_account`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, accountNumber string, t *domain.Transaction) error {
	var dest sql.NullString
	if t.DestAccount != nil {
		dest = sql.NullString{String: *t.DestAccount, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (account_number, `+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		accountNumber, t.ID, toMicros(t.Timestamp), t.Type, t.Amount,
		t.Description, t.SourceAccount, dest,
	)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

// ListByAccount returns the history filed under accountNumber in insertion
// order.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_number = ? ORDER BY seq`, accountNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccount: scan: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccount: rows: %w", err)
	}
	return txs, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var (
		t          domain.Transaction
		occurredAt int64
		dest       sql.NullString
	)
	err := s.Scan(&t.ID, &occurredAt, &t.Type, &t.Amount, &t.Description, &t.SourceAccount, &dest)
	if err != nil {
		return nil, err
	}
	t.Timestamp = fromMicros(occurredAt)
	if dest.Valid {
		d := dest.String
		t.DestAccount = &d
	}
	return &t, nil
}
