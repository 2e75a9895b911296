package postgres

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
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (account_number, `+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		accountNumber, t.ID, t.Timestamp.UTC(), t.Type, t.Amount,
		t.Description, t.SourceAccount, t.DestAccount,
	)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_number = $1 ORDER BY seq`, accountNumber,
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
	var t domain.Transaction
	err := s.Scan(&t.ID, &t.Timestamp, &t.Type, &t.Amount, &t.Description, &t.SourceAccount, &t.DestAccount)
	if err != nil {
		return nil, err
	}
	t.Timestamp = t.Timestamp.UTC()
	return &t, nil
}
