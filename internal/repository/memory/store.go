// Package memory is a process-local persistence store. It satisfies the same
// contracts as the SQL stores and is used for tests and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string][]domain.Transaction
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string][]domain.Transaction),
	}
}

func (s *Store) GetByNumber(_ context.Context, number string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[number]
	if !ok {
		return nil, fmt.Errorf("GetByNumber: %w", domain.ErrNotFound)
	}
	return cloneAccount(a), nil
}

func (s *Store) Create(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Number]; ok {
		return fmt.Errorf("Create: %w", domain.ErrAccountExists)
	}
	s.accounts[account.Number] = *cloneAccount(*account)
	return nil
}

func (s *Store) Save(ctx context.Context, account *domain.Account) error {
	return s.SaveAll(ctx, account)
}

func (s *Store) SaveAll(_ context.Context, accounts ...*domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		s.accounts[a.Number] = *cloneAccount(*a)
	}
	return nil
}

func (s *Store) Append(_ context.Context, accountNumber string, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions[accountNumber] = append(s.transactions[accountNumber], cloneTransaction(*tx))
	return nil
}

func (s *Store) ListByAccount(_ context.Context, accountNumber string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.transactions[accountNumber]
	out := make([]domain.Transaction, len(seq))
	for i := range seq {
		out[i] = cloneTransaction(seq[i])
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func cloneAccount(a domain.Account) *domain.Account {
	if a.NegativeSince != nil {
		since := *a.NegativeSince
		a.NegativeSince = &since
	}
	return &a
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	if tx.DestAccount != nil {
		dest := *tx.DestAccount
		tx.DestAccount = &dest
	}
	return tx
}
