package testutil

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

// SeedAccount inserts an account straight into a migrated PostgreSQL
// database, bypassing the engine.
func SeedAccount(t *testing.T, db *sql.DB, number string, accountType domain.AccountType, password string, balance decimal.Decimal) *domain.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	a := &domain.Account{
		Number:       number,
		Type:         accountType,
		Login:        "user" + number,
		PasswordHash: string(hash),
		Balance:      balance,
	}

	_, err = db.Exec(
		`INSERT INTO accounts (number, account_type, login, password_hash, balance)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.Number, a.Type, a.Login, a.PasswordHash, a.Balance,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", number, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, number string) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE number = $1`, number).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", number, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, number string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_number = $1`, number).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for %s: %v", number, err)
	}
	return count
}
