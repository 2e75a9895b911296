package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank_data", "bank.db")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestPingAfterClose(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())
	require.Error(t, store.Ping(ctx))
}

func TestAccountRoundTrip(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()
	since := time.Date(2024, 12, 22, 0, 34, 37, 123456000, time.UTC)

	in := &domain.Account{
		Number:        "22222",
		Type:          domain.AccountTypeVIP,
		Login:         "testUser2",
		PasswordHash:  "hash",
		Balance:       decimal.RequireFromString("-100.8"),
		NegativeSince: &since,
	}
	require.NoError(t, store.Create(ctx, in))

	got, err := store.GetByNumber(ctx, "22222")
	require.NoError(t, err)
	assert.Equal(t, in.Type, got.Type)
	assert.Equal(t, in.Login, got.Login)
	assert.True(t, in.Balance.Equal(got.Balance), "balance %s", got.Balance)
	require.NotNil(t, got.NegativeSince)
	assert.True(t, since.Equal(*got.NegativeSince))

	got.Balance = decimal.RequireFromString("12.345")
	got.NegativeSince = nil
	require.NoError(t, store.Save(ctx, got))

	again, err := store.GetByNumber(ctx, "22222")
	require.NoError(t, err)
	assert.Equal(t, "12.345", again.Balance.String())
	assert.Nil(t, again.NegativeSince)
}

func TestCreateDuplicateAccount(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()
	a := &domain.Account{Number: "11111", Type: domain.AccountTypeNormal, Login: "u", PasswordHash: "h", Balance: decimal.Zero}

	require.NoError(t, store.Create(ctx, a))
	require.ErrorIs(t, store.Create(ctx, a), domain.ErrAccountExists)
}

func TestGetByNumberNotFound(t *testing.T) {
	store, _ := openTempStore(t)
	_, err := store.GetByNumber(context.Background(), "99999")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveAllWritesEveryAccount(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	a := &domain.Account{Number: "11111", Type: domain.AccountTypeNormal, Login: "a", PasswordHash: "h", Balance: decimal.NewFromInt(392)}
	b := &domain.Account{Number: "22222", Type: domain.AccountTypeVIP, Login: "b", PasswordHash: "h", Balance: decimal.NewFromInt(100)}
	require.NoError(t, store.SaveAll(ctx, a, b))

	for _, want := range []*domain.Account{a, b} {
		got, err := store.GetByNumber(ctx, want.Number)
		require.NoError(t, err)
		assert.True(t, want.Balance.Equal(got.Balance))
	}
}

func TestTransactionsKeepInsertionOrder(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2024, 12, 22, 0, 34, 37, 0, time.UTC)
	dest := "22222"

	txs := []domain.Transaction{
		domain.NewTransaction(domain.TransactionTypeDeposit, decimal.NewFromInt(500), "deposit", "11111", nil, now),
		domain.NewTransaction(domain.TransactionTypeTransferSent, decimal.NewFromInt(-100), "transfer sent to 22222", "11111", &dest, now),
		domain.NewTransaction(domain.TransactionTypeTransferFee, decimal.NewFromInt(-8), "transfer fee", "11111", nil, now),
	}
	for i := range txs {
		require.NoError(t, store.Append(ctx, "11111", &txs[i]))
	}

	got, err := store.ListByAccount(ctx, "11111")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range txs {
		assert.Equal(t, txs[i].ID, got[i].ID)
		assert.Equal(t, txs[i].Type, got[i].Type)
		assert.True(t, txs[i].Amount.Equal(got[i].Amount))
		assert.True(t, now.Equal(got[i].Timestamp))
	}
	require.NotNil(t, got[1].DestAccount)
	assert.Equal(t, "22222", *got[1].DestAccount)
	assert.Nil(t, got[2].DestAccount)

	empty, err := store.ListByAccount(ctx, "22222")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReopenKeepsState(t *testing.T) {
	store, path := openTempStore(t)
	ctx := context.Background()

	a := &domain.Account{Number: "11111", Type: domain.AccountTypeNormal, Login: "a", PasswordHash: "h", Balance: decimal.NewFromInt(42)}
	require.NoError(t, store.Create(ctx, a))
	tx := domain.NewTransaction(domain.TransactionTypeDeposit, decimal.NewFromInt(42), "deposit", "11111", nil, time.Now())
	require.NoError(t, store.Append(ctx, "11111", &tx))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByNumber(ctx, "11111")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(42)))

	history, err := reopened.ListByAccount(ctx, "11111")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, tx.ID, history[0].ID)
}
