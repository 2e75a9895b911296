// Package statement keeps the per-account, append-only transaction history
// that backs account statements.
package statement

import (
	"context"
	"fmt"
	"slices"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

// TransactionStore is the durable side of the log.
type TransactionStore interface {
	Append(ctx context.Context, accountNumber string, tx *domain.Transaction) error
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

// Log caches the sequences of accounts that have been opened and writes
// every recorded entry through to the store.
type Log struct {
	store   TransactionStore
	entries map[string][]domain.Transaction
}

func NewLog(store TransactionStore) *Log {
	return &Log{store: store, entries: make(map[string][]domain.Transaction)}
}

// Open loads the persisted history for accountNumber into the cache unless it
// is already there.
func (l *Log) Open(ctx context.Context, accountNumber string) error {
	if _, ok := l.entries[accountNumber]; ok {
		return nil
	}
	txs, err := l.store.ListByAccount(ctx, accountNumber)
	if err != nil {
		return fmt.Errorf("Open: %w: %w", domain.ErrPersistence, err)
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	l.entries[accountNumber] = txs
	return nil
}

func (l *Log) IsOpen(accountNumber string) bool {
	_, ok := l.entries[accountNumber]
	return ok
}

// Record files tx under its source account. Counterparty entries are not
// mirrored here; the caller records them as separate transactions.
func (l *Log) Record(ctx context.Context, tx domain.Transaction) error {
	if err := l.store.Append(ctx, tx.SourceAccount, &tx); err != nil {
		return fmt.Errorf("Record: %w: %w", domain.ErrPersistence, err)
	}
	if seq, ok := l.entries[tx.SourceAccount]; ok {
		l.entries[tx.SourceAccount] = append(seq, tx)
	}
	return nil
}

// Entries returns a copy of the history for accountNumber in creation order.
// Accounts that were never opened are read straight from the store.
func (l *Log) Entries(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	if seq, ok := l.entries[accountNumber]; ok {
		return slices.Clone(seq), nil
	}
	txs, err := l.store.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("Entries: %w: %w", domain.ErrPersistence, err)
	}
	return txs, nil
}
